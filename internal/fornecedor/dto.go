package fornecedor

import (
	"strings"

	"github.com/dchesque/app-loja/internal/core/common/query"
	fornecedorDatamodel "github.com/dchesque/app-loja/internal/core/datamodel/fornecedor"
	"github.com/dchesque/app-loja/internal/store"
)

type CreateFornecedorDTO struct {
	Codigo            *string `json:"codigo"`
	RazaoSocial       string  `json:"razao_social" validate:"required,min=1"`
	NomeFantasia      string  `json:"nome_fantasia" validate:"required,min=1"`
	CNPJ              string  `json:"cnpj" validate:"required,cnpj"`
	InscricaoEstadual *string `json:"inscricao_estadual"`
	Telefone          *string `json:"telefone" validate:"omitempty,telefone"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Contato           *string `json:"contato"`
	CEP               *string `json:"cep" validate:"omitempty,cep"`
	Endereco          *string `json:"endereco"`
	Numero            *string `json:"numero"`
	Complemento       *string `json:"complemento"`
	Bairro            *string `json:"bairro"`
	Cidade            *string `json:"cidade"`
	UF                *string `json:"uf" validate:"omitempty,len=2"`
	Website           *string `json:"website" validate:"omitempty,url"`
	Categoria         *string `json:"categoria"`
	Observacoes       *string `json:"observacoes"`
	Status            *Status `json:"status" validate:"omitempty,oneof=ativo inativo"`
}

// CodigoValue returns the trimmed codigo, "" when absent.
func (d CreateFornecedorDTO) CodigoValue() string {
	if d.Codigo == nil {
		return ""
	}
	return strings.TrimSpace(*d.Codigo)
}

// ToModel maps the payload onto a new row. An empty codigo is stored as
// NULL and status defaults to ativo.
func (d CreateFornecedorDTO) ToModel() *Fornecedor {
	f := &Fornecedor{
		RazaoSocial:       d.RazaoSocial,
		NomeFantasia:      d.NomeFantasia,
		CNPJ:              d.CNPJ,
		InscricaoEstadual: d.InscricaoEstadual,
		Telefone:          d.Telefone,
		Email:             d.Email,
		Contato:           d.Contato,
		CEP:               d.CEP,
		Endereco:          d.Endereco,
		Numero:            d.Numero,
		Complemento:       d.Complemento,
		Bairro:            d.Bairro,
		Cidade:            d.Cidade,
		UF:                d.UF,
		Website:           d.Website,
		Categoria:         d.Categoria,
		Observacoes:       d.Observacoes,
		Status:            fornecedorDatamodel.StatusAtivo,
	}
	if codigo := d.CodigoValue(); codigo != "" {
		f.Codigo = &codigo
	}
	if d.Status != nil && *d.Status != "" {
		f.Status = *d.Status
	}
	return f
}

// UpdateFornecedorDTO is a partial update; nil fields are left untouched.
type UpdateFornecedorDTO struct {
	Codigo            *string `json:"codigo" validate:"omitempty,min=1"`
	RazaoSocial       *string `json:"razao_social" validate:"omitempty,min=1"`
	NomeFantasia      *string `json:"nome_fantasia" validate:"omitempty,min=1"`
	CNPJ              *string `json:"cnpj" validate:"omitempty,cnpj"`
	InscricaoEstadual *string `json:"inscricao_estadual"`
	Telefone          *string `json:"telefone" validate:"omitempty,telefone"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Contato           *string `json:"contato"`
	CEP               *string `json:"cep" validate:"omitempty,cep"`
	Endereco          *string `json:"endereco"`
	Numero            *string `json:"numero"`
	Complemento       *string `json:"complemento"`
	Bairro            *string `json:"bairro"`
	Cidade            *string `json:"cidade"`
	UF                *string `json:"uf" validate:"omitempty,len=2"`
	Website           *string `json:"website" validate:"omitempty,url"`
	Categoria         *string `json:"categoria"`
	Observacoes       *string `json:"observacoes"`
	Status            *Status `json:"status" validate:"omitempty,oneof=ativo inativo"`
}

func (d UpdateFornecedorDTO) ToPatch() map[string]any {
	patch := map[string]any{}
	for col, v := range map[string]*string{
		"codigo":             d.Codigo,
		"razao_social":       d.RazaoSocial,
		"nome_fantasia":      d.NomeFantasia,
		"cnpj":               d.CNPJ,
		"inscricao_estadual": d.InscricaoEstadual,
		"telefone":           d.Telefone,
		"email":              d.Email,
		"contato":            d.Contato,
		"cep":                d.CEP,
		"endereco":           d.Endereco,
		"numero":             d.Numero,
		"complemento":        d.Complemento,
		"bairro":             d.Bairro,
		"cidade":             d.Cidade,
		"uf":                 d.UF,
		"website":            d.Website,
		"categoria":          d.Categoria,
		"observacoes":        d.Observacoes,
	} {
		if v != nil {
			patch[col] = *v
		}
	}
	if d.Status != nil && *d.Status != "" {
		patch["status"] = string(*d.Status)
	}
	return patch
}

type ListQuery struct {
	query.Page
	OrderBy      string `json:"orderBy" validate:"omitempty,oneof=razao_social codigo created_at"`
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	CNPJ         string `json:"cnpj"`
	Codigo       string `json:"codigo"`
	Cidade       string `json:"cidade"`
	UF           string `json:"uf"`
	Categoria    string `json:"categoria"`
	Status       string `json:"status" validate:"omitempty,oneof=ativo inativo"`
}

// SelectOptions translates the query into gateway options: substring match
// on the text fields, exact match on uf and status.
func (q ListQuery) SelectOptions() store.SelectOptions {
	return store.SelectOptions{
		Filters: store.Filters{
			"razao_social":  query.Like(q.RazaoSocial),
			"nome_fantasia": query.Like(q.NomeFantasia),
			"cnpj":          query.Like(q.CNPJ),
			"codigo":        query.Like(q.Codigo),
			"cidade":        query.Like(q.Cidade),
			"categoria":     query.Like(q.Categoria),
			"uf":            query.Eq(q.UF),
			"status":        query.Eq(q.Status),
		},
		Order:      q.Order(q.OrderBy),
		Pagination: q.Pagination(),
	}
}
