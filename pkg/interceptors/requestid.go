package interceptors

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// NewRequestIDInterceptor reuses the inbound header value or mints a new ID,
// stores it on the context and echoes it in the response header.
func NewRequestIDInterceptor(header string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(header)
			if id == "" {
				if existing, ok := RequestIDFromContext(ctx); ok && existing != "" {
					id = existing
				} else {
					id = uuid.NewString()
				}
			}
			ctx = WithRequestID(ctx, id)

			resp, err := next(ctx, req)
			if err != nil {
				var cerr *connect.Error
				if errors.As(err, &cerr) {
					cerr.Meta().Set(header, id)
				}
				return resp, err
			}
			if resp != nil {
				resp.Header().Set(header, id)
			}
			return resp, nil
		}
	}
}
