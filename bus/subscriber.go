package bus

import (
	"encoding/json"

	"github.com/pfeiferj/gomsgq"
)

type Subscriber[T any] struct {
	Sub gomsgq.MsgqSubscriber
}

func (s *Subscriber[T]) Read() (obj T, success bool) {
	data := s.Sub.Read()
	if len(data) == 0 {
		return obj, false
	}
	err := json.Unmarshal(data, &obj)
	if err != nil {
		return obj, false
	}
	return obj, true
}

func (s *Subscriber[T]) Close() {
	s.Sub.Msgq.Close()
}

func NewSubscriber[T any](name string, conflate bool) (subscriber Subscriber[T]) {
	msgq := gomsgq.Msgq{}
	err := msgq.Init(name, DEFAULT_SEGMENT_SIZE)
	if err != nil {
		panic(err)
	}
	sub := gomsgq.MsgqSubscriber{}
	sub.Conflate = conflate
	sub.Init(msgq)

	subscriber.Sub = sub
	return subscriber
}
