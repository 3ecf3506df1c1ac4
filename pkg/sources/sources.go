// Package sources persists tenant-scoped source database registrations for
// the control-plane API.
package sources

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/suryatmodulus/pg-replicate/pkg/config"
)

// Source is one registered PostgreSQL connection a tenant replicates from.
type Source struct {
	ID       string        `json:"id"`
	TenantID string        `json:"tenant_id"`
	Name     string        `json:"name"`
	Config   config.Source `json:"config"`
}

// Stripped returns a copy safe to return from read endpoints: the password
// never leaves the store.
func (s Source) Stripped() Source {
	s.Config.Password = ""
	return s
}

// NotFoundError reports a source id that does not exist for the tenant.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the source with id %s was not found", e.ID)
}

// Store keeps sources in pebble, keyed tenant/<tenant_id>/source/<id> so a
// tenant's sources form one contiguous key range.
type Store struct {
	db *pebble.DB
}

// NewStore opens (or creates) the store at path.
func NewStore(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sources store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-open pebble database. The caller keeps
// ownership of the handle.
func NewStoreWithDB(db *pebble.DB) *Store {
	return &Store{db: db}
}

func sourceKey(tenantID, id string) []byte {
	return []byte(fmt.Sprintf("tenant/%s/source/%s", tenantID, id))
}

func tenantPrefix(tenantID string) []byte {
	return []byte(fmt.Sprintf("tenant/%s/source/", tenantID))
}

// Create registers a new source and returns it with its generated id.
func (s *Store) Create(tenantID, name string, cfg config.Source) (Source, error) {
	src := Source{
		ID:       ksuid.New().String(),
		TenantID: tenantID,
		Name:     name,
		Config:   cfg,
	}
	data, err := json.Marshal(src)
	if err != nil {
		return Source{}, fmt.Errorf("failed to marshal source: %w", err)
	}
	if err := s.db.Set(sourceKey(tenantID, src.ID), data, pebble.Sync); err != nil {
		return Source{}, fmt.Errorf("failed to store source: %w", err)
	}
	return src, nil
}

// Get returns one source by id.
func (s *Store) Get(tenantID, id string) (Source, error) {
	data, closer, err := s.db.Get(sourceKey(tenantID, id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Source{}, &NotFoundError{ID: id}
		}
		return Source{}, fmt.Errorf("failed to read source: %w", err)
	}
	defer closer.Close()

	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return Source{}, fmt.Errorf("failed to unmarshal source: %w", err)
	}
	return src, nil
}

// List returns every source the tenant has registered.
func (s *Store) List(tenantID string) ([]Source, error) {
	prefix := tenantPrefix(tenantID)
	upper := append(append([]byte{}, prefix...), 0xFF)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate sources: %w", err)
	}
	defer iter.Close()

	var out []Source
	for iter.First(); iter.Valid(); iter.Next() {
		var src Source
		if err := json.Unmarshal(iter.Value(), &src); err != nil {
			return nil, fmt.Errorf("failed to unmarshal source %q: %w", iter.Key(), err)
		}
		out = append(out, src)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sources: %w", err)
	}
	return out, nil
}

// Update replaces the name and config of an existing source.
func (s *Store) Update(tenantID, id, name string, cfg config.Source) (Source, error) {
	src, err := s.Get(tenantID, id)
	if err != nil {
		return Source{}, err
	}
	src.Name = name
	src.Config = cfg

	data, err := json.Marshal(src)
	if err != nil {
		return Source{}, fmt.Errorf("failed to marshal source: %w", err)
	}
	if err := s.db.Set(sourceKey(tenantID, id), data, pebble.Sync); err != nil {
		return Source{}, fmt.Errorf("failed to store source: %w", err)
	}
	return src, nil
}

// Delete removes a source. Deleting an unknown id is a NotFoundError so the
// API can answer 404 instead of silently succeeding.
func (s *Store) Delete(tenantID, id string) error {
	if _, err := s.Get(tenantID, id); err != nil {
		return err
	}
	if err := s.db.Delete(sourceKey(tenantID, id), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
