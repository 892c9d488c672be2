package importer

import (
	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
)

// ImportInput defines the request for importing a pasted rulebook text
type ImportInput struct {
	Text string
	// Types restricts the import to some record types. Empty runs all of
	// them in content.RecordTypes order.
	Types []content.RecordType
}

// ImportOutput defines the response for an import
type ImportOutput struct {
	Results  []*rulebook.Result
	Failures []*Failure
}

// Failure reports a record type whose extraction stopped on a store error
type Failure struct {
	Type content.RecordType
	Err  error
}

// Failed reports whether any record type failed
func (o *ImportOutput) Failed() bool {
	return len(o.Failures) > 0
}

// Records is the number of records written across every record type
func (o *ImportOutput) Records() int {
	n := 0
	for _, r := range o.Results {
		n += r.Records
	}
	return n
}

// PreviewInput defines the request for a dry run
type PreviewInput struct {
	Text  string
	Types []content.RecordType
}

// PreviewOutput holds what an import would write, batch by batch
type PreviewOutput struct {
	Results []*rulebook.Result
	Batches []*rulebook.Batch
}

// ListCollectionsInput defines the request for listing collections
type ListCollectionsInput struct{}

// ListCollectionsOutput defines the response for listing collections
type ListCollectionsOutput struct {
	Collections []content.Collection
}

// ListRecordsInput defines the request for listing the records of a collection
type ListRecordsInput struct {
	CollectionKey string
}

// ListRecordsOutput defines the response for listing records
type ListRecordsOutput struct {
	Records []*content.Record
}

// GetRecordInput defines the request for getting one record by name
type GetRecordInput struct {
	CollectionKey string
	Name          string
}

// GetRecordOutput defines the response for getting a record
type GetRecordOutput struct {
	Record *content.Record
}
