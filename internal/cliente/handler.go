package cliente

import (
	"context"
	"net/http"

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/core/common/validation"
	"github.com/dchesque/app-loja/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, callerID string, dto CreateClienteDTO) (*Cliente, error)
	List(ctx context.Context, q ListQuery) ([]Cliente, int64, error)
	Get(ctx context.Context, id string) (*Cliente, error)
	Update(ctx context.Context, callerID, id string, dto UpdateClienteDTO) (*Cliente, error)
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Validator *validation.Validator
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, v *validation.Validator) *Handler {
	if v == nil {
		v = validation.NewValidator()
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Validator:   v,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateClienteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	c, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusCreated, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := ListQuery{
		Page:    transport.PageFromRequest(r),
		OrderBy: v.Get("orderBy"),
		Nome:    v.Get("nome"),
		CPF:     v.Get("cpf"),
		Codigo:  v.Get("codigo"),
		Loja:    v.Get("loja"),
		Cidade:  v.Get("cidade"),
		UF:      v.Get("uf"),
	}
	q.Normalize()
	if err := h.Validator.Struct(q); err != nil {
		h.HandleError(w, r, err)
		return
	}

	data, count, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteList(w, data, count, q.Page.Page, q.PageSize)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Get(r.Context(), transport.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateClienteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	c, err := h.Service.Update(r.Context(), internal.UserIDFromContext(r.Context()), transport.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Delete(r.Context(), transport.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Response{
		Success: true,
		Message: res.Message,
		Data:    res.Cliente,
	})
}
