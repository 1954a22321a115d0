package fornecedor

import (
	"context"
	"net/http"

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/core/common/validation"
	"github.com/dchesque/app-loja/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, callerID string, dto CreateFornecedorDTO) (*Fornecedor, error)
	List(ctx context.Context, q ListQuery) ([]Fornecedor, int64, error)
	Get(ctx context.Context, id string) (*Fornecedor, error)
	Update(ctx context.Context, callerID, id string, dto UpdateFornecedorDTO) (*Fornecedor, error)
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
	var dto CreateFornecedorDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	f, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusCreated, f)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := ListQuery{
		Page:         transport.PageFromRequest(r),
		OrderBy:      v.Get("orderBy"),
		RazaoSocial:  v.Get("razao_social"),
		NomeFantasia: v.Get("nome_fantasia"),
		CNPJ:         v.Get("cnpj"),
		Codigo:       v.Get("codigo"),
		Cidade:       v.Get("cidade"),
		UF:           v.Get("uf"),
		Categoria:    v.Get("categoria"),
		Status:       v.Get("status"),
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
	f, err := h.Service.Get(r.Context(), transport.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, f)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateFornecedorDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Validator.Struct(dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	f, err := h.Service.Update(r.Context(), internal.UserIDFromContext(r.Context()), transport.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteData(w, http.StatusOK, f)
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
		Data:    res.Fornecedor,
	})
}
