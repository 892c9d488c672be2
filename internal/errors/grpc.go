package errors

import (
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts an error to a gRPC status error. The metadata of an
// Error travels as a structpb.Struct detail.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	// Already a status error
	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if !As(err, &customErr) {
		return status.Error(GetCode(err).GRPCCode(), err.Error())
	}

	st := status.New(customErr.Code.GRPCCode(), customErr.Message)
	if details := metaDetails(customErr); details != nil {
		if withDetails, err := st.WithDetails(details); err == nil {
			st = withDetails
		}
	}
	return st.Err()
}

// FromGRPCError converts a gRPC status error back to an Error
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	customErr := &Error{
		Code:    codeFromGRPC(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		if s, ok := detail.(*structpb.Struct); ok {
			if meta, ok := s.AsMap()["meta"].(map[string]interface{}); ok {
				customErr.Meta = meta
			}
			break
		}
	}

	return customErr
}

// GRPCStatus returns the gRPC status for any error
func GRPCStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	return status.Convert(ToGRPCError(err))
}

// metaDetails encodes the error metadata as a Struct. The JSON round trip
// turns typed values such as validation field maps into plain JSON values.
func metaDetails(e *Error) *structpb.Struct {
	if len(e.Meta) == 0 {
		return nil
	}

	raw, err := json.Marshal(map[string]interface{}{
		"code": string(e.Code),
		"meta": e.Meta,
	})
	if err != nil {
		return nil
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil
	}

	details, err := structpb.NewStruct(plain)
	if err != nil {
		return nil
	}
	return details
}
