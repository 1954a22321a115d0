package fornecedor

import (
	"context"

	fornecedorDatamodel "github.com/dchesque/app-loja/internal/core/datamodel/fornecedor"
	"github.com/dchesque/app-loja/internal/store"
)

type (
	Fornecedor = fornecedorDatamodel.Fornecedor
	Status     = fornecedorDatamodel.Status
)

// Repository is the fornecedores table. Lookups return (nil, nil) when no
// row matches.
type Repository interface {
	InTx(ctx context.Context, fn func(tx Repository) error) error
	FindByID(ctx context.Context, id string) (*Fornecedor, error)
	ExistsBy(ctx context.Context, column, value string) (bool, error)
	Create(ctx context.Context, f *Fornecedor) (*Fornecedor, error)
	Update(ctx context.Context, id string, patch map[string]any) (*Fornecedor, error)
	Delete(ctx context.Context, id string) (*Fornecedor, error)
	List(ctx context.Context, opts store.SelectOptions) ([]Fornecedor, int64, error)
}

type DeleteResult struct {
	Message    string
	Fornecedor *Fornecedor
}
