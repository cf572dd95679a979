// Package httpapi exposes the game service as JSON over HTTP. Each route
// forwards to the same handlers the gRPC service uses.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/solarbloom/internal/grpc/gameserver"
	"github.com/mitchelldurbincs/solarbloom/internal/monitoring"
)

const maxBodyBytes = 64 << 10

type handlers struct {
	svc     gameserver.GameServiceServer
	monitor *monitoring.Monitor
	logger  zerolog.Logger
}

// Option customizes the HTTP server
type Option func(*handlers)

// WithMonitor serves the monitor's last sample at GET /metrics
func WithMonitor(m *monitoring.Monitor) Option {
	return func(h *handlers) { h.monitor = m }
}

// NewServer wires routes and returns an http.Handler
func NewServer(svc gameserver.GameServiceServer, logger zerolog.Logger, opts ...Option) http.Handler {
	h := &handlers{
		svc:    svc,
		logger: logger.With().Str("component", "HTTPAPI").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	if h.monitor != nil {
		r.Get("/metrics", h.metrics)
	}
	r.Post("/games", h.create)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", h.state)
		r.Delete("/", h.remove)
		r.Get("/board", h.board)
		r.Post("/actions", h.submit)
		r.Post("/end-turn", h.endTurn)
	})
	return r
}

type unaryCall func(context.Context, *structpb.Struct) (*structpb.Struct, error)

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

func (h *handlers) metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.monitor.Metrics()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode metrics")
	}
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.forward(w, r, h.svc.CreateGame, req, http.StatusCreated)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.GetGameState, gameRequest(r), http.StatusOK)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.DeleteGame, gameRequest(r), http.StatusOK)
}

func (h *handlers) endTurn(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.svc.EndTurn, gameRequest(r), http.StatusOK)
}

// submit accepts {"action": {...}}; the Idempotency-Key header fills in a
// missing idempotency_key
func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Fields["game_id"] = structpb.NewStringValue(chi.URLParam(r, "id"))
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		if _, ok := req.Fields["idempotency_key"]; !ok {
			req.Fields["idempotency_key"] = structpb.NewStringValue(key)
		}
	}
	h.forward(w, r, h.svc.SubmitAction, req, http.StatusOK)
}

// board serves the fogged ASCII board as plain text
func (h *handlers) board(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetGameState(r.Context(), gameRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	board := resp.GetFields()["state"].GetStructValue().GetFields()["board"].GetStringValue()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, board)
}

func (h *handlers) forward(w http.ResponseWriter, r *http.Request, call unaryCall, req *structpb.Struct, okStatus int) {
	resp, err := call(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := protojson.Marshal(resp)
	if err != nil {
		h.writeError(w, r, status.Errorf(codes.Internal, "failed to encode response: %v", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(okStatus)
	_, _ = w.Write(body)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	st := status.Convert(err)
	code := httpStatus(st.Code())
	if code >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", code).Msg("Request rejected")
	}

	body, _ := protojson.Marshal(&structpb.Struct{Fields: map[string]*structpb.Value{
		"code":  structpb.NewStringValue(st.Code().String()),
		"error": structpb.NewStringValue(st.Message()),
	}})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// gameRequest builds {"game_id": <url id>}
func gameRequest(r *http.Request) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"game_id": structpb.NewStringValue(chi.URLParam(r, "id")),
	}}
}

// decodeBody parses a JSON object body; an empty body is an empty object
func decodeBody(r *http.Request) (*structpb.Struct, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to read body: %v", err)
	}
	if len(data) > maxBodyBytes {
		return nil, status.Errorf(codes.InvalidArgument, "body exceeds %d bytes", maxBodyBytes)
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if len(data) == 0 {
		return req, nil
	}
	if err := protojson.Unmarshal(data, req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "body must be a JSON object: %v", err)
	}
	if req.Fields == nil {
		req.Fields = map[string]*structpb.Value{}
	}
	return req, nil
}

// httpStatus maps gRPC codes the game service returns onto HTTP statuses
func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled:
		return 499
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
