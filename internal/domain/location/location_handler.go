package location

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/FACorreiaa/roofing-site/internal/seo"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

// Handler implements the LocationService RPCs.
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

func (h *Handler) ListLocations(
	ctx context.Context,
	_ *connect.Request[ListLocationsRequest],
) (*connect.Response[ListLocationsResponse], error) {
	locations, err := h.svc.ListLocations(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListLocationsResponse{Locations: locations}), nil
}

// GetLocation returns one city with its canonical page URL.
func (h *Handler) GetLocation(
	ctx context.Context,
	req *connect.Request[GetLocationRequest],
) (*connect.Response[GetLocationResponse], error) {
	if req.Msg.Slug == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("slug is required"))
	}

	loc, err := h.svc.GetLocation(ctx, req.Msg.Slug)
	if err != nil {
		return nil, toConnectError(err)
	}
	site, err := h.svc.Site(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetLocationResponse{
		Location: *loc,
		URL:      seo.LocationURL(site, loc.Slug),
	}), nil
}

func (h *Handler) ListServices(
	ctx context.Context,
	_ *connect.Request[ListServicesRequest],
) (*connect.Response[ListServicesResponse], error) {
	services, err := h.svc.ListServices(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListServicesResponse{Services: services}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, types.ErrBadRequest):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
