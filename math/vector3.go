package math

import (
	m "math"
)

type Vector3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vector3) Length() float64 {
	return m.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthXY ignores the vertical component. Ground speed comes from here.
func (v Vector3) LengthXY() float64 {
	return m.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// DotXY is the planar dot product, used for heading checks where the
// vertical component is noise.
func (v Vector3) DotXY(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vector3) Subtract(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vector3) Scale(factor float64) Vector3 {
	return Vector3{X: v.X * factor, Y: v.Y * factor, Z: v.Z * factor}
}

func (v Vector3) DistanceTo(other Vector3) float64 {
	return v.Subtract(other).Length()
}

func (v Vector3) Normalized() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return v.Scale(1 / length)
}
