package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/dchesque/app-loja/pkg/logger"
)

type panicResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	OriginalMessage string `json:"originalMessage,omitempty"`
}

// RecoveryMiddleware turns a panic into a 500 envelope. The panic value is
// only echoed to the client outside production.
func RecoveryMiddleware(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.From(r.Context()).Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				resp := panicResponse{Success: false, Message: "Erro interno do servidor"}
				if !production {
					resp.OriginalMessage = panicMessage(rec)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func panicMessage(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
