package storage

import (
	"errors"
	"fmt"
)

var (
	// DefaultDir is the root directory for the file storage.
	DefaultDir = "file-storage"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key for a general implementation
type Key struct {
	Pair  string `json:"pair"`
	Label string `json:"label"`
}

// Path returns the file name for the key.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.Pair, k.Label)
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// Journal appends values by key.
type Journal interface {
	Append(k Key, value interface{}) error
}
