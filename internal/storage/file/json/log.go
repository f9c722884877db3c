package json

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/drakos74/ar-trader/internal/storage"
)

const logSuffix = ".log"

// Logger appends values as json lines, one file per key.
type Logger struct {
	path string
	lock sync.Mutex
}

// NewLogger creates a new logger writing under the given folder.
func NewLogger(folder string) *Logger {
	return &Logger{path: folder}
}

// File returns the log file for the given key.
func (l *Logger) File(k storage.Key) string {
	return filepath.Join(l.path, k.Path()+logSuffix)
}

// Append appends the value as a new line to the log of the key.
func (l *Logger) Append(k storage.Key, value interface{}) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := mkdir(l.path); err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value '%+v': %w", value, err)
	}
	f, err := os.OpenFile(l.File(k), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write log file for '%+v': %w", k, err)
	}
	return nil
}

// ReadLog reads all the json lines of the given file.
func ReadLog[T any](fileName string) ([]T, error) {
	f, err := os.Open(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("could not find log '%s': %w", fileName, storage.NotFoundErr)
		}
		return nil, fmt.Errorf("could not open log '%s': %w", fileName, err)
	}
	defer f.Close()

	vv := make([]T, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(scanner.Bytes(), &v); err != nil {
			return nil, fmt.Errorf("could not decode line %d of '%s': '%v': %w", line, fileName, err, storage.CouldNotLoadErr)
		}
		vv = append(vv, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read log '%s': %w", fileName, err)
	}
	return vv, nil
}
