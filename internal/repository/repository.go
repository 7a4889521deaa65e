package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/metasql/metasql/internal/model"
)

// fileSuffix is appended to document ids to form file names.
const fileSuffix = ".model.yaml"

// Document is one stored unit: a set of named query models under a
// single id. Revision changes on every successful store.
type Document struct {
	ID       string
	Revision string
	Models   map[string]*model.QueryModel
}

// Repository stores documents as YAML files in one directory.
//
// The repository mediates a single process's access to the directory;
// a mutex serializes mutations so concurrent CLI-style callers within
// the process cannot interleave a read-modify-write.
type Repository struct {
	dir string
	mu  sync.Mutex
}

// New creates a Repository rooted at dir, creating the directory if
// needed.
func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: create dir: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// path returns the file path for a document id.
func (r *Repository) path(id string) string {
	return filepath.Join(r.dir, id+fileSuffix)
}

// Store writes a document to the repository.
//
// When a document with the same id already exists and overwrite is
// false, Store fails with *AlreadyExistsError and leaves the existing
// file untouched. Every successful store assigns the document a fresh
// revision, and each model's fingerprint is recomputed at the
// serialization boundary. Models are validated before anything is
// written; an invalid model aborts the whole store.
func (r *Repository) Store(doc *Document, overwrite bool) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("repository: store: document id is required")
	}
	for name, m := range doc.Models {
		if err := model.Validate(m); err != nil {
			return fmt.Errorf("repository: store %q: model %q: %w", doc.ID, name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.path(doc.ID)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &AlreadyExistsError{ID: doc.ID}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("repository: store %q: %w", doc.ID, err)
		}
	}

	doc.Revision = uuid.NewString()
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("repository: store %q: %w", doc.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("repository: store %q: %w", doc.ID, err)
	}
	return nil
}

// Get reads a document by id. A missing document returns (nil, nil).
func (r *Repository) Get(id string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *Repository) get(id string) (*Document, error) {
	data, err := os.ReadFile(r.path(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: get %q: %w", id, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("repository: get %q: %w", id, err)
	}
	return doc, nil
}

// Remove deletes one named model from a document. Removing the last
// model deletes the document's file entirely. Missing documents or
// models fail with *NotFoundError.
func (r *Repository) Remove(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.get(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return &NotFoundError{ID: id}
	}
	if _, ok := doc.Models[name]; !ok {
		return &NotFoundError{ID: id, Model: name}
	}
	delete(doc.Models, name)

	path := r.path(id)
	if len(doc.Models) == 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("repository: remove %q: %w", id, err)
		}
		return nil
	}

	doc.Revision = uuid.NewString()
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("repository: remove %q: %w", id, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("repository: remove %q: %w", id, err)
	}
	return nil
}

// List returns the stored document ids in sorted order.
func (r *Repository) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("repository: list: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), fileSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}
