package params

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"accd.dev/accd/utils"
)

var (
	ParamsPath = GetBasePath()
)

// Params
var (
	ACC_SETTINGS          = ParamPath("AccSettings")
	LAST_VEHICLE_POSITION = ParamPath("LastVehiclePosition")
)

// Exists returns whether the given file or directory exists
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "could not check param file stats")
}

func GetBasePath() string {
	if base := os.Getenv("ACCD_PARAMS_PATH"); base != "" {
		return base
	}
	return "data/params/d"
}

func EnsureParamDirectories() {
	err := os.MkdirAll(ParamsPath, 0o775)
	if err != nil {
		utils.Logwe(errors.Wrap(err, "could not make params directory"))
	}
}

func GetParams() ([]string, error) {
	files, err := os.ReadDir(ParamsPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not read params directory")
	}

	paramFiles := []string{}
	for _, file := range files {
		name := file.Name()
		if file.Type().IsRegular() && name[0] != '.' {
			paramFiles = append(paramFiles, name)
		}
	}
	sort.Strings(paramFiles)

	return paramFiles, nil
}

func ParamPath(name string) string {
	return filepath.Join(ParamsPath, name)
}

func GetParam(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// lockParamsDir takes the directory lock shared with any other process that
// writes params. The caller must call the returned release func.
func lockParamsDir(dir string) (release func(), err error) {
	lockDir := filepath.Dir(dir)
	lockPath := filepath.Join(lockDir, ".lock")
	fileLock := flock.New(lockPath)

	retries := 0
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return nil, errors.Wrap(err, "could not try locking params directory")
		}
		if locked {
			break
		}
		retries += 1
		if retries > 30 {
			// a crashed writer may have left the lock behind
			if err := os.Remove(lockPath); err != nil {
				utils.Logde(errors.Wrap(err, "failed to force delete params lock"))
			}
		}
		if retries > 50 {
			return nil, errors.New("could not obtain lock")
		}
		time.Sleep(1 * time.Millisecond)
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			utils.Loge(errors.Wrap(err, "could not unlock params directory"))
		}
		if err := os.Remove(lockPath); err != nil {
			utils.Loge(errors.Wrap(err, "could not remove params lock file"))
		}
	}, nil
}

func syncDir(dir string) error {
	directory, err := os.Open(dir)
	if err != nil {
		return errors.Wrap(err, "could not open params directory")
	}
	defer directory.Close()
	return errors.Wrap(directory.Sync(), "could not fsync params directory")
}

func PutParam(path string, data []byte) error {
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, ".tmp_value_"+filepath.Base(path))
	if err != nil {
		return errors.Wrap(err, "could not create temp param file")
	}
	tmpName := file.Name()
	defer os.Remove(tmpName)

	_, err = file.Write(data)
	if err != nil {
		return errors.Wrap(err, "could not write data to temp param file")
	}

	err = file.Sync()
	if err != nil {
		return errors.Wrap(err, "could not fsync temp param file")
	}

	release, err := lockParamsDir(dir)
	if err != nil {
		return err
	}
	defer release()

	err = os.Rename(tmpName, path)
	if err != nil {
		return errors.Wrap(err, "could not move temp param file to persistent location")
	}

	return syncDir(dir)
}

func RemoveParam(path string) error {
	dir := filepath.Dir(path)

	release, err := lockParamsDir(dir)
	if err != nil {
		return err
	}
	defer release()

	os.Remove(path)

	return syncDir(dir)
}
