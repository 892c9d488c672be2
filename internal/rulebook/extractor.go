package rulebook

import (
	"context"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
)

// Batch is every record of one category, flushed together to one collection
type Batch struct {
	Type       content.RecordType
	Collection content.Collection
	Records    []*content.Record
}

// Sink receives the batches of an extraction as categories close.
// A batch is flushed only after all of its records have been accumulated
// and before the next category starts.
type Sink interface {
	Flush(ctx context.Context, batch *Batch) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, batch *Batch) error

// Flush calls f
func (f SinkFunc) Flush(ctx context.Context, batch *Batch) error {
	return f(ctx, batch)
}

// Collector is a Sink that keeps every batch in memory
type Collector struct {
	Batches []*Batch
}

// Flush records the batch
func (c *Collector) Flush(_ context.Context, batch *Batch) error {
	c.Batches = append(c.Batches, batch)
	return nil
}

// Records returns the collected records in flush order
func (c *Collector) Records() []*content.Record {
	var out []*content.Record
	for _, b := range c.Batches {
		out = append(out, b.Records...)
	}
	return out
}

// Result summarizes the extraction of one record type
type Result struct {
	Type content.RecordType
	// Found is false when the section heading is absent from the text
	Found       bool
	Records     int
	Collections []content.Collection
	// Matched counts equipment records merged with a statistics table row
	Matched int
}

// Extractor runs the per-type scanners over a pasted rulebook text
type Extractor struct {
	formatter *Formatter
}

// NewExtractor creates an extractor. A nil formatter uses the default images.
func NewExtractor(formatter *Formatter) *Extractor {
	if formatter == nil {
		formatter = NewFormatter(DefaultImages())
	}
	return &Extractor{formatter: formatter}
}

// Extract runs the scanner of one record type. A missing section returns an
// empty result and no error; errors only come from the sink or the context.
func (e *Extractor) Extract(ctx context.Context, t content.RecordType, text string, sink Sink) (*Result, error) {
	if sink == nil {
		return nil, errors.InvalidArgument("sink is required")
	}

	switch t {
	case content.RecordTypeTrait:
		return e.ExtractTraits(ctx, text, sink)
	case content.RecordTypeSkill:
		return e.ExtractSkills(ctx, text, sink)
	case content.RecordTypeSpell:
		return e.ExtractSpells(ctx, text, sink)
	case content.RecordTypeWeapon:
		return e.ExtractWeapons(ctx, text, sink)
	case content.RecordTypeArmor:
		return e.ExtractArmor(ctx, text, sink)
	default:
		return nil, errors.InvalidArgumentf("unknown record type %q", t)
	}
}

// accumulator is the scanning state of one section: the open candidate, the
// sealed candidates of the open category and the category's collection.
type accumulator struct {
	sink       Sink
	formatter  *Formatter
	recordType content.RecordType
	result     *Result

	collection content.Collection
	current    *Candidate
	sealed     []*Candidate
}

func (e *Extractor) newAccumulator(t content.RecordType, sink Sink) *accumulator {
	return &accumulator{
		sink:       sink,
		formatter:  e.formatter,
		recordType: t,
		result:     &Result{Type: t, Found: true},
	}
}

// open seals the current candidate and starts c
func (a *accumulator) open(c *Candidate) {
	a.seal()
	a.current = c
}

func (a *accumulator) seal() {
	if a.current == nil {
		return
	}
	a.sealed = append(a.sealed, a.current)
	a.current = nil
}

// flush formats and hands the sealed candidates of the open category to
// the sink. Nothing is flushed for an empty category.
func (a *accumulator) flush(ctx context.Context) error {
	a.seal()
	if len(a.sealed) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "extraction stopped")
	}

	batch := &Batch{
		Type:       a.recordType,
		Collection: a.collection,
		Records:    make([]*content.Record, 0, len(a.sealed)),
	}
	for _, c := range a.sealed {
		batch.Records = append(batch.Records, a.formatter.Format(c, a.recordType))
	}
	a.sealed = nil

	if err := a.sink.Flush(ctx, batch); err != nil {
		return errors.Wrapf(err, "failed to flush collection %s", batch.Collection.Key)
	}

	a.result.Records += len(batch.Records)
	a.result.Collections = append(a.result.Collections, batch.Collection)
	return nil
}

// switchCategory flushes the open category then starts accumulating into collection
func (a *accumulator) switchCategory(ctx context.Context, collection content.Collection) error {
	if err := a.flush(ctx); err != nil {
		return err
	}
	a.collection = collection
	return nil
}

func missing(t content.RecordType) *Result {
	return &Result{Type: t}
}
