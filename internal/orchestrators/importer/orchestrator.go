// Package importer turns a pasted rulebook text into stored content records
package importer

//go:generate mockgen -destination=mock/mock_service.go -package=importermock github.com/KirkDiggler/lorelegacy/internal/orchestrators/importer Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	contentrepo "github.com/KirkDiggler/lorelegacy/internal/repositories/content"
	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
)

// Service defines the interface for rulebook import operations
type Service interface {
	// Import extracts every record type and writes the records to the store
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)
	// Preview runs the same extraction without writing anything
	Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error)

	ListCollections(ctx context.Context, input *ListCollectionsInput) (*ListCollectionsOutput, error)
	ListRecords(ctx context.Context, input *ListRecordsInput) (*ListRecordsOutput, error)
	GetRecord(ctx context.Context, input *GetRecordInput) (*GetRecordOutput, error)
}

// Config holds the dependencies for the importer orchestrator
type Config struct {
	Repository contentrepo.Repository
	// Extractor is optional, the default one uses the stock images
	Extractor *rulebook.Extractor
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}

	return vb.Build()
}

type orchestrator struct {
	repo      contentrepo.Repository
	extractor *rulebook.Extractor
}

// NewOrchestrator creates a new importer orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractor = rulebook.NewExtractor(nil)
	}

	return &orchestrator{
		repo:      cfg.Repository,
		extractor: extractor,
	}, nil
}

// Import runs the extraction of each record type in order over the same
// text. A store failure stops the record type it happened in; the other
// types still run. Cancellation or an expired deadline stops the whole import.
func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	types, err := resolveTypes(input.Types)
	if err != nil {
		return nil, err
	}

	sink := &storeSink{repo: o.repo}
	output := &ImportOutput{}

	for _, t := range types {
		result, err := o.extractor.Extract(ctx, t, input.Text, sink)
		if result != nil {
			output.Results = append(output.Results, result)
		}
		if err == nil {
			if !result.Found {
				slog.InfoContext(ctx, "Section not found", "type", t)
			}
			continue
		}
		if errors.IsCanceled(err) || errors.IsDeadlineExceeded(err) {
			return nil, err
		}

		slog.ErrorContext(ctx, "Import of record type failed",
			"type", t,
			"error", err,
		)
		output.Failures = append(output.Failures, &Failure{Type: t, Err: err})
	}

	slog.InfoContext(ctx, "Rulebook imported",
		"records", output.Records(),
		"replaced", sink.replaced,
		"failures", len(output.Failures),
	)

	return output, nil
}

// Preview runs the extraction into a collecting sink
func (o *orchestrator) Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	types, err := resolveTypes(input.Types)
	if err != nil {
		return nil, err
	}

	collector := &rulebook.Collector{}
	output := &PreviewOutput{}

	for _, t := range types {
		result, err := o.extractor.Extract(ctx, t, input.Text, collector)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to preview %s", t)
		}
		output.Results = append(output.Results, result)
	}
	output.Batches = collector.Batches

	return output, nil
}

// ListCollections returns every stored collection
func (o *orchestrator) ListCollections(ctx context.Context, _ *ListCollectionsInput) (*ListCollectionsOutput, error) {
	out, err := o.repo.ListCollections(ctx, &contentrepo.ListCollectionsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collections")
	}

	return &ListCollectionsOutput{Collections: out.Collections}, nil
}

// ListRecords returns the records of one collection
func (o *orchestrator) ListRecords(ctx context.Context, input *ListRecordsInput) (*ListRecordsOutput, error) {
	if input == nil || input.CollectionKey == "" {
		return nil, errors.InvalidArgument("collection key is required")
	}

	out, err := o.repo.List(ctx, &contentrepo.ListInput{CollectionKey: input.CollectionKey})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list collection %s", input.CollectionKey)
	}

	return &ListRecordsOutput{Records: out.Records}, nil
}

// GetRecord retrieves a record by collection and name
func (o *orchestrator) GetRecord(ctx context.Context, input *GetRecordInput) (*GetRecordOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CollectionKey == "" {
		return nil, errors.InvalidArgument("collection key is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("name is required")
	}

	out, err := o.repo.Get(ctx, &contentrepo.GetInput{
		CollectionKey: input.CollectionKey,
		Name:          input.Name,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get record")
	}

	return &GetRecordOutput{Record: out.Record}, nil
}

// resolveTypes checks the requested types, defaulting to all of them
func resolveTypes(types []content.RecordType) ([]content.RecordType, error) {
	if len(types) == 0 {
		return content.RecordTypes, nil
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, errors.InvalidArgumentf("unknown record type %q", t)
		}
	}
	return types, nil
}

// storeSink writes each flushed batch record by record
type storeSink struct {
	repo     contentrepo.Repository
	replaced int
}

func (s *storeSink) Flush(ctx context.Context, batch *rulebook.Batch) error {
	for _, rec := range batch.Records {
		out, err := s.repo.CreateOrReplace(ctx, &contentrepo.CreateOrReplaceInput{
			Collection: batch.Collection,
			Record:     rec,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to store %s", rec.Name)
		}
		if out.Replaced {
			s.replaced++
			slog.DebugContext(ctx, "Record replaced",
				"collection", batch.Collection.Key,
				"name", rec.Name,
			)
		}
	}

	slog.InfoContext(ctx, "Collection flushed",
		"type", batch.Type,
		"collection", batch.Collection.Key,
		"records", len(batch.Records),
	)
	return nil
}
