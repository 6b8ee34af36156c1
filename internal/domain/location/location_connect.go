package location

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/FACorreiaa/roofing-site/pkg/connectjson"
)

const (
	// ServiceName is the fully qualified name of the content API.
	ServiceName = "roofsite.location.v1.LocationService"

	ListLocationsProcedure = "/" + ServiceName + "/ListLocations"
	GetLocationProcedure   = "/" + ServiceName + "/GetLocation"
	ListServicesProcedure  = "/" + ServiceName + "/ListServices"
)

// ServiceHandler is implemented by *Handler.
type ServiceHandler interface {
	ListLocations(context.Context, *connect.Request[ListLocationsRequest]) (*connect.Response[ListLocationsResponse], error)
	GetLocation(context.Context, *connect.Request[GetLocationRequest]) (*connect.Response[GetLocationResponse], error)
	ListServices(context.Context, *connect.Request[ListServicesRequest]) (*connect.Response[ListServicesResponse], error)
}

// NewServiceHandler mounts the RPCs under "/roofsite.location.v1.LocationService/".
func NewServiceHandler(svc ServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connectjson.WithCodec(),
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
	}, opts...)

	listLocations := connect.NewUnaryHandler(ListLocationsProcedure, svc.ListLocations, opts...)
	getLocation := connect.NewUnaryHandler(GetLocationProcedure, svc.GetLocation, opts...)
	listServices := connect.NewUnaryHandler(ListServicesProcedure, svc.ListServices, opts...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ListLocationsProcedure:
			listLocations.ServeHTTP(w, r)
		case GetLocationProcedure:
			getLocation.ServeHTTP(w, r)
		case ListServicesProcedure:
			listServices.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// Client calls the content API.
type Client struct {
	listLocations *connect.Client[ListLocationsRequest, ListLocationsResponse]
	getLocation   *connect.Client[GetLocationRequest, GetLocationResponse]
	listServices  *connect.Client[ListServicesRequest, ListServicesResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connectjson.WithCodec()}, opts...)
	return &Client{
		listLocations: connect.NewClient[ListLocationsRequest, ListLocationsResponse](httpClient, baseURL+ListLocationsProcedure, opts...),
		getLocation:   connect.NewClient[GetLocationRequest, GetLocationResponse](httpClient, baseURL+GetLocationProcedure, opts...),
		listServices:  connect.NewClient[ListServicesRequest, ListServicesResponse](httpClient, baseURL+ListServicesProcedure, opts...),
	}
}

func (c *Client) ListLocations(ctx context.Context, req *connect.Request[ListLocationsRequest]) (*connect.Response[ListLocationsResponse], error) {
	return c.listLocations.CallUnary(ctx, req)
}

func (c *Client) GetLocation(ctx context.Context, req *connect.Request[GetLocationRequest]) (*connect.Response[GetLocationResponse], error) {
	return c.getLocation.CallUnary(ctx, req)
}

func (c *Client) ListServices(ctx context.Context, req *connect.Request[ListServicesRequest]) (*connect.Response[ListServicesResponse], error) {
	return c.listServices.CallUnary(ctx, req)
}
