package content

import (
	"context"
	"sync"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/clock"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
)

// InMemoryConfig contains the optional collaborators of the in-memory repository
type InMemoryConfig struct {
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu          sync.RWMutex
	stamper     stamper
	collections map[string]content.Collection
	records     map[string]map[string]*content.Record
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) *InMemoryRepository {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}
	return &InMemoryRepository{
		stamper:     newStamper(cfg.IDGenerator, cfg.Clock),
		collections: make(map[string]content.Collection),
		records:     make(map[string]map[string]*content.Record),
	}
}

// CreateOrReplace stores a record, replacing any record of the same name
func (r *InMemoryRepository) CreateOrReplace(_ context.Context, input *CreateOrReplaceInput) (*CreateOrReplaceOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	rec := r.stamper.stamp(input.Record)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := input.Collection.Key
	r.collections[key] = input.Collection
	if _, ok := r.records[key]; !ok {
		r.records[key] = make(map[string]*content.Record)
	}

	_, replaced := r.records[key][rec.Name]
	delete(r.records[key], rec.Name)
	r.records[key][rec.Name] = rec

	return &CreateOrReplaceOutput{Record: rec.Clone(), Replaced: replaced}, nil
}

// Get retrieves a record by collection and name
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, input.Name, true); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[input.CollectionKey][input.Name]
	if !ok {
		return nil, errors.NotFoundf("record %q not found in collection %s", input.Name, input.CollectionKey)
	}

	// copy to prevent external modification
	return &GetOutput{Record: rec.Clone()}, nil
}

// List returns the records of a collection ordered by name
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, "", false); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	byName, ok := r.records[input.CollectionKey]
	if !ok {
		return nil, errors.NotFoundf("collection %s not found", input.CollectionKey)
	}

	records := make([]*content.Record, 0, len(byName))
	for _, rec := range byName {
		records = append(records, rec.Clone())
	}
	sortRecords(records)

	return &ListOutput{Records: records}, nil
}

// ListCollections returns the known collections ordered by key
func (r *InMemoryRepository) ListCollections(_ context.Context, _ *ListCollectionsInput) (*ListCollectionsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collections := make([]content.Collection, 0, len(r.collections))
	for _, c := range r.collections {
		collections = append(collections, c)
	}
	sortCollections(collections)

	return &ListCollectionsOutput{Collections: collections}, nil
}

// Delete removes a record
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateKey(input.CollectionKey, input.Name, true); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[input.CollectionKey][input.Name]; !ok {
		return nil, errors.NotFoundf("record %q not found in collection %s", input.Name, input.CollectionKey)
	}
	delete(r.records[input.CollectionKey], input.Name)

	return &DeleteOutput{}, nil
}
