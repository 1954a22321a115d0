package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dchesque/app-loja/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

// withCapturedLogs attaches a JSON logger writing into buf to every request.
func withCapturedLogs(buf *bytes.Buffer, next http.Handler) http.Handler {
	lg := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logger.Into(r.Context(), lg)))
	})
}

var _ = Describe("LoggingMiddleware", func() {
	var logs *bytes.Buffer

	BeforeEach(func() {
		logs = &bytes.Buffer{}
	})

	It("should mask credentials without altering what the handler sees", func() {
		var seen string
		h := withCapturedLogs(logs, LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			seen = string(b)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"token":"eyJ.secret.jwt","user":{"email":"a@b.com"}}}`))
		})))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.com","password":"hunter22"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(seen).To(ContainSubstring("hunter22"))
		Expect(rec.Body.String()).To(ContainSubstring("eyJ.secret.jwt"))

		out := logs.String()
		Expect(out).NotTo(ContainSubstring("hunter22"))
		Expect(out).NotTo(ContainSubstring("eyJ.secret.jwt"))
		Expect(out).NotTo(ContainSubstring("Bearer abc"))
		Expect(out).To(ContainSubstring("a@b.com"))
		Expect(out).To(ContainSubstring(`"status_code":200`))
	})

	It("should log failures at warn level", func() {
		h := withCapturedLogs(logs, LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		})))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		Expect(logs.String()).To(ContainSubstring(`"level":"WARN"`))
	})

	It("should filter nested objects and arrays", func() {
		out := filterSensitiveBody([]byte(`{"items":[{"senha":"1"},{"nome":"ok"}],"api_key":"k"}`))

		var decoded map[string]any
		Expect(json.Unmarshal([]byte(out), &decoded)).To(Succeed())
		Expect(decoded["api_key"]).To(Equal("[FILTERED]"))
		items := decoded["items"].([]any)
		Expect(items[0]).To(HaveKeyWithValue("senha", "[FILTERED]"))
		Expect(items[1]).To(HaveKeyWithValue("nome", "ok"))
	})

	It("should refuse to echo non-JSON bodies that mention credentials", func() {
		Expect(filterSensitiveBody([]byte("password=abc"))).To(Equal("[FILTERED - Contains sensitive data]"))
		Expect(filterSensitiveBody([]byte("plain"))).To(Equal("plain"))
	})

	It("should cap captured bodies without short writes", func() {
		buf := &bytes.Buffer{}
		lb := &limitedBuffer{buf: buf, max: 4}

		n, err := lb.Write([]byte("abcdef"))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(6))
		Expect(buf.String()).To(Equal("abcd"))
	})
})

var _ = Describe("CORS", func() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	It("should tag responses for allowed origins only", func() {
		h := CORS([]string{"http://localhost:3000"})(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		Expect(rec.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should answer preflight without reaching the handler", func() {
		called := false
		h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodOptions, "/api/clientes/1", nil)
		req.Header.Set("Origin", "http://any.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(called).To(BeFalse())
		Expect(rec.Code).To(BeNumerically("<", 300))
		Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("DELETE"))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).NotTo(BeEmpty())
	})

	It("should expose the trace header to browsers", func() {
		h := CORS([]string{"http://localhost:3000"})(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Expose-Headers")).To(ContainSubstring(TraceHeader))
	})

	It("should allow no origin when none is configured", func() {
		h := CORS(nil)(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("MaxBodySize", func() {
	It("should fail reads past the cap", func() {
		var readErr error
		h := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))

		var tooLarge *http.MaxBytesError
		Expect(errors.As(readErr, &tooLarge)).To(BeTrue())
	})

	It("should pass bodies within the cap untouched", func() {
		var got string
		h := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			got = string(b)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("01234567")))

		Expect(got).To(Equal("01234567"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]any {
		var body map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("should answer 500 with the panic message in development", func() {
		logs := &bytes.Buffer{}
		rec := httptest.NewRecorder()
		withCapturedLogs(logs, RecoveryMiddleware(false)(boom)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		body := decode(rec)
		Expect(body).To(HaveKeyWithValue("success", false))
		Expect(body).To(HaveKeyWithValue("message", "Erro interno do servidor"))
		Expect(body).To(HaveKeyWithValue("originalMessage", "kaboom"))
		Expect(logs.String()).To(ContainSubstring("panic recovered"))
	})

	It("should hide the panic message in production", func() {
		logs := &bytes.Buffer{}
		rec := httptest.NewRecorder()
		withCapturedLogs(logs, RecoveryMiddleware(true)(boom)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(decode(rec)).NotTo(HaveKey("originalMessage"))
	})

	It("should let aborted handlers keep unwinding", func() {
		h := RecoveryMiddleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		Expect(func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
	})
})

var _ = Describe("RequestID", func() {
	It("should echo the caller's trace id", func() {
		logs := &bytes.Buffer{}
		h := withCapturedLogs(logs, RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Info("handled")
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
		Expect(logs.String()).To(ContainSubstring(`"traceID":"trace-123"`))
	})

	It("should mint one when absent", func() {
		rec := httptest.NewRecorder()
		RequestID(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("Metrics", func() {
	It("should count requests by route pattern", func() {
		m := NewMetrics()
		r := chi.NewRouter()
		r.Use(m.Middleware)
		r.Get("/api/clientes/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		r.Handle("/metrics", m.Handler())

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clientes/abc", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/clientes/def", nil))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		out := rec.Body.String()
		Expect(out).To(ContainSubstring(`loja_http_requests_total{method="GET",route="/api/clientes/{id}",status="404"} 2`))
		Expect(out).To(ContainSubstring(`loja_http_errors_total{method="GET",route="/api/clientes/{id}",status="404"} 2`))
		Expect(out).To(ContainSubstring("go_goroutines"))
	})
})
