// Package v1alpha1 exposes the rulebook importer over gRPC
package v1alpha1

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/dice"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/importer"
)

// HandlerConfig holds dependencies for the importer handler
type HandlerConfig struct {
	ImportService importer.Service
	DiceService   dice.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.ImportService == nil {
		vb.RequiredField("ImportService")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	return vb.Build()
}

// Handler implements ImporterServiceServer
type Handler struct {
	importService importer.Service
	diceService   dice.Service
}

var _ ImporterServiceServer = (*Handler)(nil)

// NewHandler creates a new importer handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		importService: cfg.ImportService,
		diceService:   cfg.DiceService,
	}, nil
}

// Import imports a pasted rulebook text and reports what was written
func (h *Handler) Import(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if strings.TrimSpace(req.GetValue()) == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("text is required"))
	}

	out, err := h.importService.Import(ctx, &importer.ImportInput{Text: req.GetValue()})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	results := make([]any, 0, len(out.Results))
	for _, r := range out.Results {
		collections := make([]any, 0, len(r.Collections))
		for _, c := range r.Collections {
			collections = append(collections, collectionValue(c))
		}
		results = append(results, map[string]any{
			"type":        string(r.Type),
			"found":       r.Found,
			"records":     r.Records,
			"matched":     r.Matched,
			"collections": collections,
		})
	}

	failures := make([]any, 0, len(out.Failures))
	for _, f := range out.Failures {
		failures = append(failures, map[string]any{
			"type":  string(f.Type),
			"code":  errors.GetCode(f.Err).String(),
			"error": f.Err.Error(),
		})
	}

	return toStruct(map[string]any{
		"records":  out.Records(),
		"results":  results,
		"failures": failures,
	})
}

// ListCollections lists every stored collection
func (h *Handler) ListCollections(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := h.importService.ListCollections(ctx, &importer.ListCollectionsInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	collections := make([]any, 0, len(out.Collections))
	for _, c := range out.Collections {
		collections = append(collections, collectionValue(c))
	}

	return toStruct(map[string]any{"collections": collections})
}

// ListRecords lists the records of {"collection": key}
func (h *Handler) ListRecords(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key := stringField(req, "collection")
	if key == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("collection is required"))
	}

	out, err := h.importService.ListRecords(ctx, &importer.ListRecordsInput{CollectionKey: key})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	records := make([]any, 0, len(out.Records))
	for _, rec := range out.Records {
		v, err := recordValue(rec)
		if err != nil {
			return nil, errors.ToGRPCError(err)
		}
		records = append(records, v)
	}

	return toStruct(map[string]any{"records": records})
}

// GetRecord returns the record named by {"collection": key, "name": name}
func (h *Handler) GetRecord(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := &importer.GetRecordInput{
		CollectionKey: stringField(req, "collection"),
		Name:          stringField(req, "name"),
	}
	if err := validateRecordRef(input.CollectionKey, input.Name); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.importService.GetRecord(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	v, err := recordValue(out.Record)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return toStruct(v)
}

// RollDamage rolls the damage code of {"collection": key, "name": name}
func (h *Handler) RollDamage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := &dice.RollDamageInput{
		CollectionKey: stringField(req, "collection"),
		Name:          stringField(req, "name"),
	}
	if err := validateRecordRef(input.CollectionKey, input.Name); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.diceService.RollDamage(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	rolled := make([]any, 0, len(out.Roll.Dice))
	for _, d := range out.Roll.Dice {
		rolled = append(rolled, int(d))
	}

	value := map[string]any{
		"roll_id":  out.Roll.RollID,
		"weapon":   out.Weapon.Name,
		"notation": out.Roll.Notation,
		"dice":     rolled,
		"modifier": int(out.Roll.Modifier),
		"total":    int(out.Roll.Total),
	}
	if id, entityType := out.Roll.SourceRef(); entityType != "" {
		value["source"] = map[string]any{"id": id, "type": entityType}
	}
	return toStruct(value)
}

func validateRecordRef(collection, name string) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("collection", collection, vb)
	errors.ValidateRequired("name", name, vb)
	return vb.Build()
}

func stringField(s *structpb.Struct, name string) string {
	return strings.TrimSpace(s.GetFields()[name].GetStringValue())
}

func collectionValue(c content.Collection) map[string]any {
	return map[string]any{
		"key":    c.Key,
		"label":  c.Label,
		"folder": c.Folder,
	}
}

// recordValue turns a record into plain JSON values through its JSON encoding
func recordValue(rec *content.Record) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode record %s", rec.Name)
	}
	var v map[string]any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrapf(err, "failed to decode record %s", rec.Name)
	}
	return v, nil
}

// toStruct converts a response map, ints and nested slices included
func toStruct(v map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(v)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return s, nil
}
