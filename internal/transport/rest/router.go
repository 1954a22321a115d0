package rest

import (
	"net/http"

	"github.com/dchesque/app-loja/internal/auth"
	"github.com/dchesque/app-loja/internal/cliente"
	"github.com/dchesque/app-loja/internal/fornecedor"
	"github.com/dchesque/app-loja/internal/transport"
	"github.com/dchesque/app-loja/internal/transport/middleware"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Routes groups everything RegisterAllRoutes mounts. Nil handlers are
// skipped.
type Routes struct {
	Base         *transport.BaseHandler
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	Clientes     *cliente.Handler
	Fornecedores *fornecedor.Handler
	Health       *HealthHandler
	Docs         http.Handler
	OpenAPI      http.Handler
	Metrics      *middleware.Metrics
	MetricsPath  string
	Origins      []string
	Production   bool
}

func RegisterAllRoutes(router *chi.Mux, rt Routes) {
	router.Use(middleware.CORS(rt.Origins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(rt.Production))
	if rt.Metrics != nil {
		router.Use(rt.Metrics.Middleware)
	}
	router.Use(middleware.MaxBodySize(maxBodyBytes))
	router.Use(middleware.LoggingMiddleware)
	router.Use(chiMiddleware.SetHeader("X-Content-Type-Options", "nosniff"))
	router.Use(chiMiddleware.SetHeader("X-Frame-Options", "DENY"))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.Base.WriteError(w, http.StatusNotFound, "Rota não encontrada")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.Base.WriteError(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	if rt.Health != nil {
		router.Get("/health", rt.Health.liveness)
		router.Get("/health/ready", rt.Health.readiness)
	}

	if rt.OpenAPI != nil {
		router.Handle("/api-docs/openapi.json", rt.OpenAPI)
	}
	if rt.Docs != nil {
		router.Get("/api-docs", http.RedirectHandler("/api-docs/index.html", http.StatusMovedPermanently).ServeHTTP)
		router.Handle("/api-docs/*", rt.Docs)
	}

	if rt.Metrics != nil {
		path := rt.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, rt.Metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if rt.Auth == nil {
			return
		}
		admin := rt.RBAC.RequireAdmin()

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", rt.Auth.Login)

			ar.Group(func(pr chi.Router) {
				pr.Use(rt.Auth.AuthMiddleware)
				pr.Get("/me", rt.Auth.Me)

				pr.Group(func(mr chi.Router) {
					mr.Use(admin)
					mr.Post("/register", rt.Auth.Register)
					mr.Get("/users", rt.Auth.ListUsers)
					mr.Put("/users/{id}", rt.Auth.UpdateUser)
					mr.Delete("/users/{id}", rt.Auth.DeactivateUser)
				})
			})
		})

		if rt.Clientes != nil {
			r.Route("/clientes", func(cr chi.Router) {
				cr.Use(rt.Auth.AuthMiddleware)
				cr.Get("/", rt.Clientes.List)
				cr.Get("/{id}", rt.Clientes.Get)

				cr.Group(func(mr chi.Router) {
					mr.Use(admin)
					mr.Post("/", rt.Clientes.Create)
					mr.Put("/{id}", rt.Clientes.Update)
					mr.Delete("/{id}", rt.Clientes.Delete)
				})
			})
		}

		if rt.Fornecedores != nil {
			r.Route("/fornecedores", func(fr chi.Router) {
				fr.Use(rt.Auth.AuthMiddleware)
				fr.Get("/", rt.Fornecedores.List)
				fr.Get("/{id}", rt.Fornecedores.Get)

				fr.Group(func(mr chi.Router) {
					mr.Use(admin)
					mr.Post("/", rt.Fornecedores.Create)
					mr.Put("/{id}", rt.Fornecedores.Update)
					mr.Delete("/{id}", rt.Fornecedores.Delete)
				})
			})
		}
	})
}
