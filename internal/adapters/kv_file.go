package adapters

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"hotel-erp/internal/ports"
)

// FileKVAdapter persists key-value state as a flat YAML map. Every write
// rewrites the whole file through a temp file and rename.
type FileKVAdapter struct {
	Path string
	mu   sync.Mutex
}

func NewFileKVAdapter(path string) *FileKVAdapter {
	return &FileKVAdapter{Path: path}
}

func (a *FileKVAdapter) Get(key string) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	values, err := a.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (a *FileKVAdapter) Set(key string, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	values, err := a.load()
	if err != nil {
		return err
	}
	values[key] = value
	return a.store(values)
}

func (a *FileKVAdapter) Remove(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	values, err := a.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return a.store(values)
}

func (a *FileKVAdapter) load() (map[string]string, error) {
	if strings.TrimSpace(a.Path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("state file path is empty")
	}
	data, err := os.ReadFile(a.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read state file").
			WithCause(err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse state file").
			WithCause(err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (a *FileKVAdapter) store(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode state file").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create state directory").
			WithCause(err)
	}
	tmp := a.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write state file").
			WithCause(err)
	}
	if err := os.Rename(tmp, a.Path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace state file").
			WithCause(err)
	}
	return nil
}

var _ ports.KeyValuePort = (*FileKVAdapter)(nil)
