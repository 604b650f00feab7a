package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/agbado/pkg/marketplace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages travel as google.protobuf.Struct holding the JSON form of the
// marketplace models, so the wire shape matches the HTTP API.

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

func fromStruct(s *structpb.Struct, dest any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// reply wraps a slice under key, since a Struct cannot be a bare list.
func reply(key string, v any) (*structpb.Struct, error) {
	return toStruct(map[string]any{key: v})
}

// structHandler adapts a Struct-in/Struct-out method to grpc.MethodHandler.
func structHandler[S any](service, method string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func badRequest(err error) error {
	return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
}

// toStatus maps marketplace errors onto gRPC codes. Validation failures carry
// their fields as a Struct detail.
func toStatus(err error) error {
	var ve *marketplace.ValidationError
	switch {
	case errors.As(err, &ve):
		st := status.New(codes.InvalidArgument, ve.Error())
		fields := make(map[string]any, len(ve.Fields))
		for k, v := range ve.Fields {
			fields[k] = v
		}
		if detail, derr := structpb.NewStruct(fields); derr == nil {
			if withDetail, derr := st.WithDetails(detail); derr == nil {
				st = withDetail
			}
		}
		return st.Err()
	case errors.Is(err, marketplace.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// fromStatus turns a gRPC status back into the marketplace error it came
// from.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		msg := strings.TrimSuffix(st.Message(), ": "+marketplace.ErrNotFound.Error())
		return fmt.Errorf("%s: %w", msg, marketplace.ErrNotFound)
	case codes.InvalidArgument:
		ve := &marketplace.ValidationError{Fields: map[string]string{}}
		for _, d := range st.Details() {
			detail, ok := d.(*structpb.Struct)
			if !ok {
				continue
			}
			for k, v := range detail.AsMap() {
				ve.Fields[k] = fmt.Sprint(v)
			}
		}
		if len(ve.Fields) == 0 {
			ve.Fields["request"] = st.Message()
		}
		return ve
	default:
		return fmt.Errorf("rpc %s: %s", st.Code(), st.Message())
	}
}
