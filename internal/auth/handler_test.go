package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/dchesque/app-loja/internal/core/common/validation"
	coreuser "github.com/dchesque/app-loja/internal/core/user"
	"github.com/dchesque/app-loja/internal/transport"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Auth HTTP", func() {
	var (
		repo     *mockUserRepository
		tokenGen *JWTTokenGenerator
		router   *chi.Mux
	)

	do := func(method, path, token, body string) (*httptest.ResponseRecorder, transport.Response) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var resp transport.Response
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
		return rec, resp
	}

	tokenFor := func(id string, role coreuser.Role) string {
		t, err := tokenGen.GenerateToken(id, role)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return t
	}

	ginkgo.BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		baseHandler := &transport.BaseHandler{Logger: slogger}

		repo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("handler-secret", time.Hour)
		hasher := NewBcryptHasher(4)
		hash, _ := hasher.Hash("correct_password")
		repo.add(&User{ID: "u-master", Email: "master@loja.com", PasswordHash: hash, Role: coreuser.RoleMasterAdmin, Active: true})
		repo.add(&User{ID: "u-admin", Email: "admin@loja.com", PasswordHash: hash, Role: coreuser.RoleAdmin, Active: true})
		repo.add(&User{ID: "u-user", Email: "user@loja.com", PasswordHash: hash, Role: coreuser.RoleUser, Active: true})

		svc := NewService(repo, tokenGen, hasher, slogger)
		h := NewHandler(baseHandler, svc, validation.NewValidator())
		rbac := NewRBACAuthorization(baseHandler)

		router = chi.NewRouter()
		router.Post("/login", h.Login)
		router.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/me", h.Me)
			r.Group(func(r chi.Router) {
				r.Use(rbac.RequireAdmin())
				r.Post("/register", h.Register)
				r.Get("/users", h.ListUsers)
				r.Put("/users/{id}", h.UpdateUser)
				r.Delete("/users/{id}", h.DeactivateUser)
			})
		})
	})

	ginkgo.Describe("POST /login", func() {
		ginkgo.It("should answer with user and token", func() {
			rec, resp := do(http.MethodPost, "/login", "", `{"email":"admin@loja.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(resp.Success).To(gomega.BeTrue())
			data := resp.Data.(map[string]any)
			gomega.Expect(data["token"]).NotTo(gomega.BeEmpty())
			gomega.Expect(data["user"]).To(gomega.HaveKeyWithValue("email", "admin@loja.com"))
			gomega.Expect(data["user"]).NotTo(gomega.HaveKey("password"))
		})

		ginkgo.It("should list every validation failure", func() {
			rec, resp := do(http.MethodPost, "/login", "", `{"email":"nope"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(resp.Success).To(gomega.BeFalse())
			gomega.Expect(resp.Errors).To(gomega.HaveLen(2))
			gomega.Expect(resp.Message).To(gomega.Equal("Formato de e-mail inválido, Senha é obrigatória"))
		})

		ginkgo.It("should reject malformed JSON", func() {
			rec, resp := do(http.MethodPost, "/login", "", `{"email":`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(resp.Message).To(gomega.Equal("Corpo da requisição inválido"))
		})

		ginkgo.It("should answer 401 on bad credentials", func() {
			rec, resp := do(http.MethodPost, "/login", "", `{"email":"admin@loja.com","password":"bad"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(resp.Message).To(gomega.Equal("Credenciais inválidas"))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("should require a bearer token", func() {
			rec, resp := do(http.MethodGet, "/me", "", "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(resp.Message).To(gomega.Equal("Token de autenticação não fornecido"))
		})

		ginkgo.It("should reject an invalid token", func() {
			rec, resp := do(http.MethodGet, "/me", "abc.def.ghi", "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(resp.Message).To(gomega.Equal("Token inválido"))
		})

		ginkgo.It("should reject an expired token", func() {
			expired, _ := (&JWTTokenGenerator{Secret: []byte("handler-secret"), TTL: -time.Minute}).GenerateToken("u-admin", coreuser.RoleAdmin)
			rec, resp := do(http.MethodGet, "/me", expired, "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(resp.Message).To(gomega.Equal("Token expirado"))
		})

		ginkgo.It("should expose the caller on /me", func() {
			rec, resp := do(http.MethodGet, "/me", tokenFor("u-user", coreuser.RoleUser), "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(resp.Data).To(gomega.HaveKeyWithValue("id", "u-user"))
		})
	})

	ginkgo.Describe("RBAC", func() {
		ginkgo.It("should forbid USER on admin routes", func() {
			rec, resp := do(http.MethodGet, "/users", tokenFor("u-user", coreuser.RoleUser), "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(resp.Message).To(gomega.Equal("Acesso não autorizado"))
		})

		ginkgo.It("should let ADMIN list users with pagination", func() {
			rec, resp := do(http.MethodGet, "/users?page=1&pageSize=2", tokenFor("u-admin", coreuser.RoleAdmin), "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(*resp.Count).To(gomega.Equal(int64(3)))
			gomega.Expect(resp.Pagination).To(gomega.Equal(&transport.Pagination{Page: 1, PageSize: 2, PageCount: 2, Total: 3}))
		})

		ginkgo.It("should reject an unauthenticated request before the role check", func() {
			slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			rbac := NewRBACAuthorization(&transport.BaseHandler{Logger: slogger})
			h := rbac.Authorize(coreuser.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("user management", func() {
		ginkgo.It("should register with 201 and hide the hash", func() {
			rec, resp := do(http.MethodPost, "/register", tokenFor("u-admin", coreuser.RoleAdmin),
				`{"email":"novo@loja.com","password":"senha1234","name":"Novo","role":"USER"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(resp.Data).To(gomega.HaveKeyWithValue("email", "novo@loja.com"))
			gomega.Expect(resp.Data).To(gomega.HaveKeyWithValue("active", true))
			gomega.Expect(resp.Data).NotTo(gomega.HaveKey("password"))
		})

		ginkgo.It("should validate role and password length", func() {
			rec, resp := do(http.MethodPost, "/register", tokenFor("u-admin", coreuser.RoleAdmin),
				`{"email":"novo@loja.com","password":"123","name":"Novo","role":"ROOT"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(resp.Message).To(gomega.ContainSubstring("A senha deve ter pelo menos 8 caracteres"))
			gomega.Expect(resp.Message).To(gomega.ContainSubstring("Papel deve ser um de: MASTER_ADMIN, ADMIN, USER"))
		})

		ginkgo.It("should block ADMIN from editing MASTER_ADMIN", func() {
			rec, _ := do(http.MethodPut, "/users/u-master", tokenFor("u-admin", coreuser.RoleAdmin), `{"name":"x"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should deactivate with a message", func() {
			rec, resp := do(http.MethodDelete, "/users/u-user", tokenFor("u-admin", coreuser.RoleAdmin), "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(resp.Message).To(gomega.Equal("Usuário desativado com sucesso"))
			gomega.Expect(resp.Data).To(gomega.HaveKeyWithValue("active", false))
		})
	})
})
