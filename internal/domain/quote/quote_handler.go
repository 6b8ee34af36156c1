package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/FACorreiaa/roofing-site/internal/domain/pages"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/internal/types"
	"github.com/FACorreiaa/roofing-site/pkg/interceptors"
	"github.com/FACorreiaa/roofing-site/pkg/observability"
)

const (
	channelForm = "form"
	channelRPC  = "rpc"

	maxFormBytes = 16 << 10
)

// Handler implements the QuoteService RPCs.
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

func (h *Handler) SubmitQuote(
	ctx context.Context,
	req *connect.Request[SubmitQuoteRequest],
) (*connect.Response[SubmitQuoteResponse], error) {
	q, err := h.svc.Submit(ctx, req.Msg.CreateQuoteParams)
	if err != nil {
		observability.QuoteSubmissions.WithLabelValues(channelRPC, outcome(err)).Inc()
		return nil, toConnectError(err)
	}
	observability.QuoteSubmissions.WithLabelValues(channelRPC, "accepted").Inc()
	return connect.NewResponse(&SubmitQuoteResponse{Quote: *q}), nil
}

// ListQuotes is admin only; the auth interceptor rejects other callers.
func (h *Handler) ListQuotes(
	ctx context.Context,
	req *connect.Request[ListQuotesRequest],
) (*connect.Response[ListQuotesResponse], error) {
	filter := types.QuoteFilter{
		LocationSlug: req.Msg.LocationSlug,
		Status:       types.QuoteStatus(req.Msg.Status),
		Limit:        req.Msg.Limit,
	}
	if req.Msg.Since != nil {
		filter.Since = *req.Msg.Since
	}

	quotes, err := h.svc.List(ctx, filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	if quotes == nil {
		quotes = []types.QuoteRequest{}
	}
	return connect.NewResponse(&ListQuotesResponse{Quotes: quotes}), nil
}

func (h *Handler) UpdateQuoteStatus(
	ctx context.Context,
	req *connect.Request[UpdateQuoteStatusRequest],
) (*connect.Response[UpdateQuoteStatusResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invalid id"))
	}

	q, err := h.svc.UpdateStatus(ctx, id, types.QuoteStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(err)
	}

	actor, _ := interceptors.GetUserIDFromContext(ctx)
	h.logger.InfoContext(ctx, "Quote status changed",
		slog.String("quote_id", q.ID.String()),
		slog.String("status", string(q.Status)),
		slog.String("actor", actor))
	return connect.NewResponse(&UpdateQuoteStatusResponse{Quote: *q}), nil
}

// FormHandler accepts the HTML quote form and re-renders it with errors when
// validation fails.
type FormHandler struct {
	svc      Service
	pages    pages.Service
	renderer *render.Renderer
	logger   *slog.Logger
}

func NewFormHandler(svc Service, pageSvc pages.Service, renderer *render.Renderer, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		svc:      svc,
		pages:    pageSvc,
		renderer: renderer,
		logger:   logger,
	}
}

// Register mounts POST /quote behind mws, typically the form rate limiter.
func (h *FormHandler) Register(mux *http.ServeMux, mws ...interceptors.Middleware) {
	mux.Handle("POST /quote", interceptors.Chain(http.HandlerFunc(h.Submit), mws...))
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("method", "Submit"))

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		observability.QuoteSubmissions.WithLabelValues(channelForm, "rejected").Inc()
		h.renderForm(w, r, http.StatusBadRequest, render.QuoteForm{
			Errors: map[string]string{"form": "We could not read your request. Please try again."},
		})
		return
	}

	values := render.QuoteValues{
		Name:         r.PostForm.Get("name"),
		Phone:        r.PostForm.Get("phone"),
		Email:        r.PostForm.Get("email"),
		Address:      r.PostForm.Get("address"),
		LocationSlug: r.PostForm.Get("location"),
		ServiceSlug:  r.PostForm.Get("service"),
		Message:      r.PostForm.Get("message"),
	}

	q, err := h.svc.Submit(ctx, types.CreateQuoteParams{
		Name:         values.Name,
		Phone:        values.Phone,
		Email:        values.Email,
		Address:      values.Address,
		LocationSlug: values.LocationSlug,
		ServiceSlug:  values.ServiceSlug,
		Message:      values.Message,
	})
	observability.QuoteSubmissions.WithLabelValues(channelForm, outcome(err)).Inc()

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderForm(w, r, http.StatusBadRequest, render.QuoteForm{Values: values, Errors: verr.Fields})
		return
	case err != nil:
		l.ErrorContext(ctx, "Failed to submit quote", slog.Any("error", err))
		h.renderForm(w, r, http.StatusInternalServerError, render.QuoteForm{
			Values: values,
			Errors: map[string]string{"form": "Something went wrong on our end. Please call us instead."},
		})
		return
	}

	view, err := h.pages.QuotePage(ctx, render.QuoteForm{})
	if err != nil {
		l.ErrorContext(ctx, "Failed to build receipt page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	view.Submitted = true
	view.QuoteID = shortID(q.ID)
	h.write(w, r, http.StatusOK, view)
}

func (h *FormHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form render.QuoteForm) {
	view, err := h.pages.QuotePage(r.Context(), form)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build quote page", slog.Any("error", err))
		http.Error(w, http.StatusText(status), status)
		return
	}
	h.write(w, r, status, view)
}

func (h *FormHandler) write(w http.ResponseWriter, r *http.Request, status int, view *render.QuoteView) {
	body, err := h.renderer.RenderBytes(render.PageQuote, view)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render quote page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// shortID is the reference number shown to the customer.
func shortID(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, types.ErrBadRequest):
		return "rejected"
	default:
		return "failed"
	}
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, types.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, types.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, fmt.Errorf("quote service: %w", err))
	}
}
