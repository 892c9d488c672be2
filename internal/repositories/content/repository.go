// Package content persists imported rulebook records, grouped in collections.
package content

//go:generate mockgen -destination=mock/mock_repository.go -package=contentmock github.com/KirkDiggler/lorelegacy/internal/repositories/content Repository

import (
	"context"
	"sort"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/clock"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
)

// Repository stores content records. Within a collection a record is
// identified by its exact, case-sensitive name; writing a name that already
// exists replaces the previous record.
type Repository interface {
	// CreateOrReplace deletes any record with the same name then inserts the new one
	CreateOrReplace(ctx context.Context, input *CreateOrReplaceInput) (*CreateOrReplaceOutput, error)

	// Get retrieves a record by collection and name
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns every record of a collection ordered by name
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// ListCollections returns every known collection ordered by key
	ListCollections(ctx context.Context, input *ListCollectionsInput) (*ListCollectionsOutput, error)

	// Delete removes a record by collection and name
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// CreateOrReplaceInput defines the request for writing a record
type CreateOrReplaceInput struct {
	Collection content.Collection
	Record     *content.Record
}

// CreateOrReplaceOutput defines the response for writing a record
type CreateOrReplaceOutput struct {
	// Record is the stored copy, with its new ID and timestamp
	Record *content.Record
	// Replaced is true when a record with the same name was removed
	Replaced bool
}

// GetInput defines the request for retrieving a record
type GetInput struct {
	CollectionKey string
	Name          string
}

// GetOutput defines the response for retrieving a record
type GetOutput struct {
	Record *content.Record
}

// ListInput defines the request for listing a collection
type ListInput struct {
	CollectionKey string
}

// ListOutput defines the response for listing a collection
type ListOutput struct {
	Records []*content.Record
}

// ListCollectionsInput defines the request for listing collections
type ListCollectionsInput struct{}

// ListCollectionsOutput defines the response for listing collections
type ListCollectionsOutput struct {
	Collections []content.Collection
}

// DeleteInput defines the request for deleting a record
type DeleteInput struct {
	CollectionKey string
	Name          string
}

// DeleteOutput defines the response for deleting a record
type DeleteOutput struct{}

// Validate checks the write request
func (i *CreateOrReplaceInput) Validate() error {
	if i == nil {
		return errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("collection.key", i.Collection.Key, vb)
	if i.Record == nil {
		vb.RequiredField("record")
	} else {
		errors.ValidateRequired("record.name", i.Record.Name, vb)
		if !i.Record.Type.Valid() {
			vb.InvalidField("record.type", "unknown record type "+i.Record.Type.String())
		}
	}
	return vb.Build()
}

func validateKey(collectionKey, name string, nameRequired bool) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("collection_key", collectionKey, vb)
	if nameRequired {
		errors.ValidateRequired("name", name, vb)
	}
	return vb.Build()
}

func sortRecords(records []*content.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
}

func sortCollections(collections []content.Collection) {
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Key < collections[j].Key
	})
}

// stamper gives every written record a fresh ID and write time
type stamper struct {
	ids   idgen.Generator
	clock clock.Clock
}

func newStamper(ids idgen.Generator, clk clock.Clock) stamper {
	if ids == nil {
		ids = idgen.NewUUID("rec")
	}
	if clk == nil {
		clk = clock.New()
	}
	return stamper{ids: ids, clock: clk}
}

// stamp returns a copy of rec carrying a new ID and the current time
func (s stamper) stamp(rec *content.Record) *content.Record {
	out := rec.Clone()
	out.ID = s.ids.Generate()
	out.UpdatedAt = s.clock.Now().UTC()
	return out
}
