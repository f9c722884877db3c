package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drakos74/ar-trader/internal/storage"
)

// BlobStorage stores every key as a separate json file.
type BlobStorage struct {
	path  string
	table string
}

// NewJsonBlob creates a blob storage under the given directory.
// table has the same schema
func NewJsonBlob(dir, table string) *BlobStorage {
	if dir == "" {
		dir = storage.DefaultDir
	}
	return &BlobStorage{
		path:  dir,
		table: table,
	}
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	return Save(filepath.Join(s.path, s.table), k.Path(), value)
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(filepath.Join(s.path, s.table), k.Path(), value)
}

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	if err := mkdir(filePath); err != nil {
		return err
	}

	p := filepath.Join(filePath, fmt.Sprintf("%s.json", fileName))
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode value for '%s': %w", p, err)
	}

	if err := os.WriteFile(p, b, 0644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", p, err)
	}
	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {
	p := filepath.Join(filePath, fmt.Sprintf("%s.json", fileName))

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("could not find file '%s': %w", p, storage.NotFoundErr)
		}
		return fmt.Errorf("could not read file '%s': %w", p, err)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal file '%s': '%v': %w", p, err, storage.CouldNotLoadErr)
	}
	return nil
}

func mkdir(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}
	return nil
}
