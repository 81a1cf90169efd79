// Package namespace tracks which candidate namespaces exist. The registry is
// a small JSON file rewritten whole on every mutation; the vector store's
// partitions are the source of truth for the data itself, the registry only
// powers listing.
package namespace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Registry persists the known namespace names in a JSON file.
type Registry struct {
	mu   sync.Mutex
	path string
}

// NewRegistry creates a registry backed by the file at path. The file is
// created lazily on the first Add.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

type registryFile struct {
	Namespaces []string `json:"namespaces"`
}

// Add records the namespace. Adding an existing name is a no-op.
func (r *Registry) Add(name string) error {
	if name == "" {
		return errors.New("namespace name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	return r.save(append(names, name))
}

// List returns the registered namespaces sorted ascending. A missing
// registry file means no namespaces.
func (r *Registry) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Delete removes the namespace from the registry. Deleting an unknown name
// is a no-op.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load()
	if err != nil {
		return err
	}
	kept := names[:0]
	for _, existing := range names {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(names) {
		return nil
	}
	return r.save(kept)
}

func (r *Registry) load() ([]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read namespace registry: %w", err)
	}
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse namespace registry: %w", err)
	}
	sort.Strings(file.Namespaces)
	return file.Namespaces, nil
}

// save rewrites the whole file sorted and deduplicated, via a temp file and
// rename so readers never see a partial write.
func (r *Registry) save(names []string) error {
	sort.Strings(names)
	unique := names[:0]
	for i, name := range names {
		if i == 0 || name != names[i-1] {
			unique = append(unique, name)
		}
	}

	data, err := json.MarshalIndent(registryFile{Namespaces: unique}, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create registry directory: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write namespace registry: %w", err)
	}
	return os.Rename(tmp, r.path)
}
