package quote

import (
	"context"
	"net/http"
	"slices"

	"connectrpc.com/connect"

	"github.com/FACorreiaa/roofing-site/pkg/connectjson"
)

const (
	// ServiceName is the fully qualified name of the quote API.
	ServiceName = "roofsite.quote.v1.QuoteService"

	SubmitQuoteProcedure       = "/" + ServiceName + "/SubmitQuote"
	ListQuotesProcedure        = "/" + ServiceName + "/ListQuotes"
	UpdateQuoteStatusProcedure = "/" + ServiceName + "/UpdateQuoteStatus"
)

// PublicProcedures can be called without an admin token.
var PublicProcedures = []string{SubmitQuoteProcedure}

type ServiceHandler interface {
	SubmitQuote(context.Context, *connect.Request[SubmitQuoteRequest]) (*connect.Response[SubmitQuoteResponse], error)
	ListQuotes(context.Context, *connect.Request[ListQuotesRequest]) (*connect.Response[ListQuotesResponse], error)
	UpdateQuoteStatus(context.Context, *connect.Request[UpdateQuoteStatusRequest]) (*connect.Response[UpdateQuoteStatusResponse], error)
}

// NewServiceHandler mounts the RPCs under "/roofsite.quote.v1.QuoteService/".
func NewServiceHandler(svc ServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connectjson.WithCodec()}, opts...)

	submit := connect.NewUnaryHandler(SubmitQuoteProcedure, svc.SubmitQuote, opts...)
	list := connect.NewUnaryHandler(ListQuotesProcedure, svc.ListQuotes,
		slices.Concat(opts, []connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)})...)
	update := connect.NewUnaryHandler(UpdateQuoteStatusProcedure, svc.UpdateQuoteStatus,
		slices.Concat(opts, []connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyIdempotent)})...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SubmitQuoteProcedure:
			submit.ServeHTTP(w, r)
		case ListQuotesProcedure:
			list.ServeHTTP(w, r)
		case UpdateQuoteStatusProcedure:
			update.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type Client struct {
	submit *connect.Client[SubmitQuoteRequest, SubmitQuoteResponse]
	list   *connect.Client[ListQuotesRequest, ListQuotesResponse]
	update *connect.Client[UpdateQuoteStatusRequest, UpdateQuoteStatusResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connectjson.WithCodec()}, opts...)
	return &Client{
		submit: connect.NewClient[SubmitQuoteRequest, SubmitQuoteResponse](httpClient, baseURL+SubmitQuoteProcedure, opts...),
		list:   connect.NewClient[ListQuotesRequest, ListQuotesResponse](httpClient, baseURL+ListQuotesProcedure, opts...),
		update: connect.NewClient[UpdateQuoteStatusRequest, UpdateQuoteStatusResponse](httpClient, baseURL+UpdateQuoteStatusProcedure, opts...),
	}
}

func (c *Client) SubmitQuote(ctx context.Context, req *connect.Request[SubmitQuoteRequest]) (*connect.Response[SubmitQuoteResponse], error) {
	return c.submit.CallUnary(ctx, req)
}

func (c *Client) ListQuotes(ctx context.Context, req *connect.Request[ListQuotesRequest]) (*connect.Response[ListQuotesResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *Client) UpdateQuoteStatus(ctx context.Context, req *connect.Request[UpdateQuoteStatusRequest]) (*connect.Response[UpdateQuoteStatusResponse], error) {
	return c.update.CallUnary(ctx, req)
}
