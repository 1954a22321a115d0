package cliente

import (
	"context"

	clienteDatamodel "github.com/dchesque/app-loja/internal/core/datamodel/cliente"
	"github.com/dchesque/app-loja/internal/store"
)

type Cliente = clienteDatamodel.Cliente

// Repository is the clientes table. Lookups return (nil, nil) when no row
// matches.
type Repository interface {
	// InTx runs fn against a repository bound to one transaction.
	InTx(ctx context.Context, fn func(tx Repository) error) error
	FindByID(ctx context.Context, id string) (*Cliente, error)
	ExistsBy(ctx context.Context, column, value string) (bool, error)
	Create(ctx context.Context, c *Cliente) (*Cliente, error)
	Update(ctx context.Context, id string, patch map[string]any) (*Cliente, error)
	Delete(ctx context.Context, id string) (*Cliente, error)
	List(ctx context.Context, opts store.SelectOptions) ([]Cliente, int64, error)
}

// DeleteResult is the body of a successful removal.
type DeleteResult struct {
	Message string
	Cliente *Cliente
}
