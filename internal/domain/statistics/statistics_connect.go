package statistics

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/FACorreiaa/roofing-site/pkg/connectjson"
)

const (
	ServiceName = "roofsite.statistics.v1.StatisticsService"

	GetLeadStatisticsProcedure = "/" + ServiceName + "/GetLeadStatistics"
)

type ServiceHandler interface {
	GetLeadStatistics(context.Context, *connect.Request[GetLeadStatisticsRequest]) (*connect.Response[GetLeadStatisticsResponse], error)
}

// NewServiceHandler mounts the RPCs under "/roofsite.statistics.v1.StatisticsService/".
func NewServiceHandler(svc ServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connectjson.WithCodec(),
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
	}, opts...)

	getLeadStatistics := connect.NewUnaryHandler(GetLeadStatisticsProcedure, svc.GetLeadStatistics, opts...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GetLeadStatisticsProcedure:
			getLeadStatistics.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type Client struct {
	getLeadStatistics *connect.Client[GetLeadStatisticsRequest, GetLeadStatisticsResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connectjson.WithCodec()}, opts...)
	return &Client{
		getLeadStatistics: connect.NewClient[GetLeadStatisticsRequest, GetLeadStatisticsResponse](httpClient, baseURL+GetLeadStatisticsProcedure, opts...),
	}
}

func (c *Client) GetLeadStatistics(ctx context.Context, req *connect.Request[GetLeadStatisticsRequest]) (*connect.Response[GetLeadStatisticsResponse], error) {
	return c.getLeadStatistics.CallUnary(ctx, req)
}
