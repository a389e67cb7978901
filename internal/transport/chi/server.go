// Package chi exposes the search API over HTTP: the two search endpoints,
// health, and metrics. Request parsing is lenient where the domain is lenient
// and strict where it is strict; domain sentinels map to statuses here.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/db"
	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/facet"
	"github.com/citystory/placesearch/internal/domain/search/request"
	"github.com/citystory/placesearch/internal/domain/search/result"
	"github.com/citystory/placesearch/internal/domain/search/sortmode"
	"github.com/citystory/placesearch/internal/metrics"
	moderationuc "github.com/citystory/placesearch/internal/usecase/moderation"
	searchuc "github.com/citystory/placesearch/internal/usecase/search"
)

// errBadParam marks a query parameter that failed to parse.
var errBadParam = errors.New("invalid parameter")

type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeMissingQuery       errorCode = "missing_query"
	codeInvalidPlaceType   errorCode = "invalid_place_type"
	codeInvalidSortMode    errorCode = "invalid_sort_mode"
	codeMissingGeoPoint    errorCode = "missing_geo_point"
	codeInvalidCoordinates errorCode = "invalid_coordinates"
	codeInvalidPriceLevel  errorCode = "invalid_price_level"
	codeNotFound           errorCode = "not_found"
	codeInvalidTransition  errorCode = "invalid_transition"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        *searchuc.Service
	moderation    *moderationuc.Service
	ping          db.Pinger
	limits        request.Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. moderation may be nil; the internal
// moderation routes are then not registered.
func NewServer(
	search *searchuc.Service,
	moderation *moderationuc.Service,
	ping db.Pinger,
	limits request.Limits,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:     search,
		moderation: moderation,
		ping:       ping,
		limits:     limits,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingQuery, http.StatusBadRequest, codeMissingQuery),
		sentinelHandler(domain.ErrInvalidPlaceType, http.StatusBadRequest, codeInvalidPlaceType),
		sentinelHandler(domain.ErrInvalidSortMode, http.StatusBadRequest, codeInvalidSortMode),
		sentinelHandler(domain.ErrMissingGeoPoint, http.StatusBadRequest, codeMissingGeoPoint),
		sentinelHandler(domain.ErrInvalidCoordinates, http.StatusBadRequest, codeInvalidCoordinates),
		sentinelHandler(domain.ErrInvalidPriceLevel, http.StatusBadRequest, codeInvalidPriceLevel),
		sentinelHandler(domain.ErrPlaceNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidTransition, http.StatusConflict, codeInvalidTransition),
		sentinelHandler(errBadParam, http.StatusBadRequest, codeBadRequest),
	}
	return s
}

// Register mounts every route on the router. The /internal routes are for
// trusted callers only; the gateway must not expose them.
func (s *Server) Register(r chi.Router) {
	r.Get("/search", s.SearchText)
	r.Get("/search/combined", s.SearchCombined)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	if s.moderation != nil {
		r.Post("/internal/places/{id}/submit", s.SubmitPlace)
		r.Post("/internal/places/{id}/approve", s.ApprovePlace)
		r.Post("/internal/places/{id}/reject", s.RejectPlace)
	}
}

// SubmitPlace handles POST /internal/places/{id}/submit.
func (s *Server) SubmitPlace(w http.ResponseWriter, r *http.Request) {
	p, err := s.moderation.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moderationResult(&p))
}

// ApprovePlace handles POST /internal/places/{id}/approve.
func (s *Server) ApprovePlace(w http.ResponseWriter, r *http.Request) {
	p, err := s.moderation.Approve(r.Context(), chi.URLParam(r, "id"), ViewerFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moderationResult(&p))
}

// RejectPlace handles POST /internal/places/{id}/reject.
func (s *Server) RejectPlace(w http.ResponseWriter, r *http.Request) {
	p, err := s.moderation.Reject(r.Context(), chi.URLParam(r, "id"), ViewerFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moderationResult(&p))
}

type moderationResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Moderator   string     `json:"moderator,omitempty"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
}

func moderationResult(p *place.Place) moderationResponse {
	resp := moderationResponse{
		ID:        p.ID(),
		Status:    string(p.Status()),
		Moderator: p.Moderator(),
	}
	if !p.ModeratedAt().IsZero() {
		at := p.ModeratedAt()
		resp.ModeratedAt = &at
	}
	return resp
}

// SearchText handles GET /search: pure text search, q required.
func (s *Server) SearchText(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(r.URL.Query().Get("q")) == "" {
		s.handleDomainError(w, fmt.Errorf("%w: parameter q is required", domain.ErrMissingQuery))
		return
	}

	req, err := s.parseRequest(r, false)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respond(w, r, req, "search")
}

// SearchCombined handles GET /search/combined: text plus facets plus geo,
// every parameter optional.
func (s *Server) SearchCombined(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r, true)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.respond(w, r, req, "combined")
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, req *request.Request, endpoint string) {
	start := time.Now()
	page, err := s.search.Search(r.Context(), req, ViewerFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if metrics.SearchDuration != nil {
		metrics.SearchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusOK, envelope(r, req, page))
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	if err := s.ping.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]string{"status": status})
}

// parseRequest builds a validated domain request from query parameters.
// Facet and geo parameters are honored only on the combined endpoint.
func (s *Server) parseRequest(r *http.Request, combined bool) (*request.Request, error) {
	params := r.URL.Query()

	var filters facet.Filter
	var geoPoint *request.GeoPoint
	var radiusKm float64

	if combined {
		priceMin, err := intParam(params, "price_min")
		if err != nil {
			return nil, err
		}
		priceMax, err := intParam(params, "price_max")
		if err != nil {
			return nil, err
		}
		filters, err = facet.New(
			params.Get("type"), params.Get("district"), params.Get("features"),
			priceMin, priceMax,
		)
		if err != nil {
			return nil, err
		}

		lat, err := floatParam(params, "lat")
		if err != nil {
			return nil, err
		}
		lng, err := floatParam(params, "lng")
		if err != nil {
			return nil, err
		}
		if (lat == nil) != (lng == nil) {
			return nil, fmt.Errorf("%w: lat and lng must be given together", domain.ErrMissingGeoPoint)
		}
		if lat != nil {
			geoPoint = &request.GeoPoint{Latitude: *lat, Longitude: *lng}
		}

		radius, err := floatParam(params, "radius")
		if err != nil {
			return nil, err
		}
		if radius != nil {
			radiusKm = *radius
		}
	}

	highlight, err := boolParam(params, "highlight")
	if err != nil {
		return nil, err
	}
	fuzzy, err := boolParam(params, "fuzzy")
	if err != nil {
		return nil, err
	}

	var minRank float64
	if mr, err := floatParam(params, "min_rank"); err != nil {
		return nil, err
	} else if mr != nil {
		minRank = *mr
	}

	var fields []string
	if raw := params.Get("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}

	var paging request.Paging
	if p, err := intParam(params, "page"); err != nil {
		return nil, err
	} else if p != nil {
		paging.Page = *p
	}
	if ps, err := intParam(params, "page_size"); err != nil {
		return nil, err
	} else if ps != nil {
		paging.Size = *ps
	}

	req, err := request.New(
		params.Get("q"), filters, geoPoint, radiusKm,
		sortmode.Mode(strings.ToLower(params.Get("sort"))),
		highlight, fuzzy, minRank, fields, paging, s.limits,
	)
	if err != nil {
		// Plain validation failures become bad_request; sentinel matches keep
		// their specific code since their handlers run first.
		return nil, fmt.Errorf("%w: %w", errBadParam, err)
	}
	return &req, nil
}

// resultItem flattens the place projection with per-request ranking fields.
type resultItem struct {
	result.Projection

	// Relevance is present only when a text query scored the results.
	Relevance *float64 `json:"relevance,omitempty"`

	DistanceKm *float64          `json:"distance_km,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

type searchResponse struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  []resultItem `json:"results"`
}

func envelope(r *http.Request, req *request.Request, page *result.Page) searchResponse {
	resp := searchResponse{
		Count:   page.Count,
		Results: make([]resultItem, len(page.Results)),
	}
	for i, ranked := range page.Results {
		item := resultItem{
			Projection: ranked.Place,
			DistanceKm: ranked.DistanceKm,
			Highlights: ranked.Highlights,
		}
		if page.TextQuery {
			score := ranked.TextScore
			item.Relevance = &score
		}
		resp.Results[i] = item
	}

	cur := req.Paging().Page
	if page.HasNext {
		resp.Next = pageURL(r.URL, cur+1)
	}
	if page.HasPrevious {
		resp.Previous = pageURL(r.URL, cur-1)
	}
	return resp
}

// pageURL rewrites the request URL with another page number.
func pageURL(u *url.URL, page int) *string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	link := u.Path + "?" + q.Encode()
	return &link
}

func intParam(params url.Values, name string) (*int, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return &v, nil
}

func floatParam(params url.Values, name string) (*float64, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return &v, nil
}

func boolParam(params url.Values, name string) (bool, error) {
	raw := params.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingQuery,
		domain.ErrInvalidPlaceType,
		domain.ErrInvalidSortMode,
		domain.ErrMissingGeoPoint,
		domain.ErrInvalidCoordinates,
		domain.ErrInvalidPriceLevel,
		domain.ErrPlaceNotFound,
		domain.ErrInvalidTransition,
		errBadParam,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
