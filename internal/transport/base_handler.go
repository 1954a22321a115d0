package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/core/common/query"
	"github.com/dchesque/app-loja/internal/store"
	"github.com/dchesque/app-loja/pkg/logger"
	"github.com/go-chi/chi"
)

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success         bool                       `json:"success"`
	Message         string                     `json:"message,omitempty"`
	Count           *int64                     `json:"count,omitempty"`
	Data            interface{}                `json:"data,omitempty"`
	Pagination      *Pagination                `json:"pagination,omitempty"`
	Errors          []internal.ValidationError `json:"errors,omitempty"`
	OriginalMessage string                     `json:"originalMessage,omitempty"`
}

type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// NewPagination computes pageCount as ceil(total/pageSize).
func NewPagination(page, pageSize int, total int64) *Pagination {
	pageCount := 0
	if pageSize > 0 {
		pageCount = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return &Pagination{
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount,
		Total:     total,
	}
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	// Production hides internal error details from clients.
	Production bool
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, production bool) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Production: production}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteData answers {success: true, data}.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, Response{Success: true, Data: data})
}

// WriteList answers a paginated listing.
func (h *BaseHandler) WriteList(w http.ResponseWriter, data interface{}, count int64, page, pageSize int) {
	h.WriteJSON(w, http.StatusOK, Response{
		Success:    true,
		Count:      &count,
		Data:       data,
		Pagination: NewPagination(page, pageSize, count),
	})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, Response{Success: false, Message: message})
}

// HandleError is the single place errors become HTTP responses. Typed
// AppErrors keep their status; anything else is a 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		if errors.Is(err, store.ErrDuplicateKey) {
			appErr = internal.ErrDuplicateKey.WithCause(err)
		} else {
			appErr = internal.NewInternalError("Erro interno do servidor", err)
		}
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"params", routeParams(r),
		"status", appErr.StatusCode,
		"code", appErr.Code,
		"error", err,
	}
	lg := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed", attrs...)
	} else {
		lg.Warn("request rejected", attrs...)
	}

	resp := Response{Success: false, Message: appErr.Message}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		resp.Errors = details.Errors
	}
	if appErr.StatusCode >= http.StatusInternalServerError && !h.Production && appErr.Cause != nil {
		resp.OriginalMessage = appErr.Cause.Error()
	}
	h.WriteJSON(w, appErr.StatusCode, resp)
}

// DecodeJSON reads the request body into dst. An empty body decodes to the
// zero value so validation can report the missing fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return internal.ErrPayloadTooLarge.WithCause(err)
		}
		return internal.NewValidationError("Corpo da requisição inválido", internal.ErrCodeInvalidBody).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// URLParam is chi.URLParam; kept here so handlers share one import.
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// QueryInt reads an integer query parameter. Missing or non-numeric values
// yield 0 so callers can apply their defaults.
func QueryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func routeParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[k] = rctx.URLParams.Values[i]
		}
	}
	return params
}

// PageFromRequest reads page, pageSize and orderDirection from the query
// string. Call Normalize on the result before use.
func PageFromRequest(r *http.Request) query.Page {
	return query.Page{
		Page:           QueryInt(r, "page"),
		PageSize:       QueryInt(r, "pageSize"),
		OrderDirection: r.URL.Query().Get("orderDirection"),
	}
}
