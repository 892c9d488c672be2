// Package errors provides the coded errors used across lorelegacy.
//
// Every layer returns *Error values built from a Code, so the CLI and the
// gRPC service can tell a missing record from a bad request or a store
// outage without string matching.
//
// Creating errors:
//
//	err := errors.NotFound("record not found")
//	err := errors.InvalidArgumentf("unknown record type %q", t)
//
// Wrapping keeps the code of the wrapped Error:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to get record")
//	}
//
// Foreign errors are classified when wrapped: context.Canceled becomes
// CodeCanceled, context.DeadlineExceeded CodeDeadlineExceeded, anything
// else CodeInternal. Use WrapWithCode to pick the code explicitly.
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    // ...
//	}
//
// # Validation
//
// Config and input structs validate with a builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("collection_key", input.CollectionKey, vb)
//	errors.ValidateEnum("store.backend", cfg.Backend, backends, vb)
//	return vb.Build()
//
// Build returns nil or an InvalidArgument error whose "validation_errors"
// metadata maps each field to its messages.
//
// # gRPC
//
// Handlers return errors.ToGRPCError(err). The code maps one to one onto
// a gRPC status code and the metadata rides along as a structpb.Struct
// detail that FromGRPCError reads back.
package errors
