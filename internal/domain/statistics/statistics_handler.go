package statistics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

// Handler implements the admin-only StatisticsService RPCs.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

var _ ServiceHandler = (*Handler)(nil)

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

func (h *Handler) GetLeadStatistics(
	ctx context.Context,
	req *connect.Request[GetLeadStatisticsRequest],
) (*connect.Response[GetLeadStatisticsResponse], error) {
	var since time.Time
	if req.Msg.Since != nil {
		since = *req.Msg.Since
	}

	stats, err := h.svc.LeadStatistics(ctx, since)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&GetLeadStatisticsResponse{Statistics: *stats}), nil
}
