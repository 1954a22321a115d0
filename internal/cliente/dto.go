package cliente

import (
	"github.com/dchesque/app-loja/internal/core/common/query"
	"github.com/dchesque/app-loja/internal/core/common/validation"
	"github.com/dchesque/app-loja/internal/store"
)

type CreateClienteDTO struct {
	Codigo         string  `json:"codigo" validate:"required,min=1"`
	Loja           string  `json:"loja" validate:"required,min=1"`
	Nome           string  `json:"nome" validate:"required,min=1"`
	CPF            string  `json:"cpf" validate:"required,cpf"`
	DataNascimento *string `json:"data_nascimento" validate:"omitempty,isodate"`
	NomeCliente    string  `json:"nome_cliente" validate:"required,min=1"`
	Classificacao1 *string `json:"classificacao1"`
	CEP            *string `json:"cep" validate:"omitempty,cep"`
	Endereco       *string `json:"endereco"`
	Numero         *string `json:"numero"`
	Bairro         *string `json:"bairro"`
	Cidade         *string `json:"cidade"`
	UF             *string `json:"uf" validate:"omitempty,len=2"`
	TipoRes        *string `json:"tipo_res"`
	Telefone       *string `json:"telefone" validate:"omitempty,telefone"`
	Celular        *string `json:"celular" validate:"omitempty,celular"`
	Observacoes    *string `json:"observacoes"`
}

// ToModel maps the payload onto a new row. The payload must have passed
// validation.
func (d CreateClienteDTO) ToModel() *Cliente {
	c := &Cliente{
		Codigo:         d.Codigo,
		Loja:           d.Loja,
		Nome:           d.Nome,
		CPF:            d.CPF,
		NomeCliente:    d.NomeCliente,
		Classificacao1: d.Classificacao1,
		CEP:            d.CEP,
		Endereco:       d.Endereco,
		Numero:         d.Numero,
		Bairro:         d.Bairro,
		Cidade:         d.Cidade,
		UF:             d.UF,
		TipoRes:        d.TipoRes,
		Telefone:       d.Telefone,
		Celular:        d.Celular,
		Observacoes:    d.Observacoes,
	}
	if d.DataNascimento != nil && *d.DataNascimento != "" {
		if t, err := validation.ParseISODate(*d.DataNascimento); err == nil {
			c.DataNascimento = &t
		}
	}
	return c
}

// UpdateClienteDTO is a partial update; nil fields are left untouched.
type UpdateClienteDTO struct {
	Codigo         *string `json:"codigo" validate:"omitempty,min=1"`
	Loja           *string `json:"loja" validate:"omitempty,min=1"`
	Nome           *string `json:"nome" validate:"omitempty,min=1"`
	CPF            *string `json:"cpf" validate:"omitempty,cpf"`
	DataNascimento *string `json:"data_nascimento" validate:"omitempty,isodate"`
	NomeCliente    *string `json:"nome_cliente" validate:"omitempty,min=1"`
	Classificacao1 *string `json:"classificacao1"`
	CEP            *string `json:"cep" validate:"omitempty,cep"`
	Endereco       *string `json:"endereco"`
	Numero         *string `json:"numero"`
	Bairro         *string `json:"bairro"`
	Cidade         *string `json:"cidade"`
	UF             *string `json:"uf" validate:"omitempty,len=2"`
	TipoRes        *string `json:"tipo_res"`
	Telefone       *string `json:"telefone" validate:"omitempty,telefone"`
	Celular        *string `json:"celular" validate:"omitempty,celular"`
	Observacoes    *string `json:"observacoes"`
}

// ToPatch returns the columns to change. An empty data_nascimento clears
// the date.
func (d UpdateClienteDTO) ToPatch() map[string]any {
	patch := map[string]any{}
	for col, v := range map[string]*string{
		"codigo":         d.Codigo,
		"loja":           d.Loja,
		"nome":           d.Nome,
		"cpf":            d.CPF,
		"nome_cliente":   d.NomeCliente,
		"classificacao1": d.Classificacao1,
		"cep":            d.CEP,
		"endereco":       d.Endereco,
		"numero":         d.Numero,
		"bairro":         d.Bairro,
		"cidade":         d.Cidade,
		"uf":             d.UF,
		"tipo_res":       d.TipoRes,
		"telefone":       d.Telefone,
		"celular":        d.Celular,
		"observacoes":    d.Observacoes,
	} {
		if v != nil {
			patch[col] = *v
		}
	}
	if d.DataNascimento != nil {
		if t, err := validation.ParseISODate(*d.DataNascimento); err == nil {
			patch["data_nascimento"] = t
		} else {
			patch["data_nascimento"] = nil
		}
	}
	return patch
}

// ListQuery filters the listing. Empty filters are ignored.
type ListQuery struct {
	query.Page
	OrderBy string `json:"orderBy" validate:"omitempty,oneof=nome codigo created_at"`
	Nome    string `json:"nome"`
	CPF     string `json:"cpf"`
	Codigo  string `json:"codigo"`
	Loja    string `json:"loja"`
	Cidade  string `json:"cidade"`
	UF      string `json:"uf"`
}

// SelectOptions translates the query into gateway options: substring match
// on the text fields, exact match on uf.
func (q ListQuery) SelectOptions() store.SelectOptions {
	return store.SelectOptions{
		Filters: store.Filters{
			"nome":   query.Like(q.Nome),
			"cpf":    query.Like(q.CPF),
			"codigo": query.Like(q.Codigo),
			"loja":   query.Like(q.Loja),
			"cidade": query.Like(q.Cidade),
			"uf":     query.Eq(q.UF),
		},
		Order:      q.Order(q.OrderBy),
		Pagination: q.Pagination(),
	}
}
