package auth

import (
	"context"
	"net/http"

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/core/common/validation"
	coreuser "github.com/dchesque/app-loja/internal/core/user"
	"github.com/dchesque/app-loja/internal/transport"
	"github.com/dchesque/app-loja/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (coreuser.Identity, error)
	Me(ctx context.Context, id string) (*User, error)
	Register(ctx context.Context, caller coreuser.Identity, dto CreateUserDTO) (*User, error)
	ListUsers(ctx context.Context, q ListUsersQuery) ([]User, int64, error)
	UpdateUser(ctx context.Context, caller coreuser.Identity, id string, dto UpdateUserDTO) (*User, error)
	DeactivateUser(ctx context.Context, caller coreuser.Identity, id string) (*DeactivateResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Validator *validation.Validator
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, v *validation.Validator) *Handler {
	if v == nil {
		v = validation.NewValidator()
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Validator:   v,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, result)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, internal.ErrUnauthenticated)
		return
	}

	u, err := h.Service.Me(r.Context(), id.ID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, u)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, internal.ErrUnauthenticated)
		return
	}

	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	u, err := h.Service.Register(r.Context(), caller, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusCreated, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := ListUsersQuery{
		Page:     transport.QueryInt(r, "page"),
		PageSize: transport.QueryInt(r, "pageSize"),
	}
	q.Normalize()

	users, count, err := h.Service.ListUsers(r.Context(), q)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteList(w, users, count, q.Page, q.PageSize)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, internal.ErrUnauthenticated)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), caller, transport.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, u)
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, internal.ErrUnauthenticated)
		return
	}

	res, err := h.Service.DeactivateUser(r.Context(), caller, transport.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Response{
		Success: true,
		Message: res.Message,
		Data:    res.User,
	})
}

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the caller identity to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)

		identity, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleError(w, r, err)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "user_id", identity.ID, "role", identity.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
