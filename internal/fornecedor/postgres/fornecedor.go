package postgres

import (
	"context"
	"log/slog"

	"github.com/dchesque/app-loja/internal/fornecedor"
	"github.com/dchesque/app-loja/internal/store"
	"gorm.io/gorm"
)

// FornecedorRepository implements fornecedor.Repository on the generic gateway.
type FornecedorRepository struct {
	gw *store.Gateway[fornecedor.Fornecedor]
}

func NewFornecedorRepository(db *gorm.DB, lg *slog.Logger) *FornecedorRepository {
	return &FornecedorRepository{gw: store.NewGateway[fornecedor.Fornecedor](db, lg)}
}

var _ fornecedor.Repository = (*FornecedorRepository)(nil)

func (r *FornecedorRepository) InTx(ctx context.Context, fn func(tx fornecedor.Repository) error) error {
	return r.gw.Transaction(ctx, func(tx *store.Gateway[fornecedor.Fornecedor]) error {
		return fn(&FornecedorRepository{gw: tx})
	})
}

func (r *FornecedorRepository) FindByID(ctx context.Context, id string) (*fornecedor.Fornecedor, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.gw.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *FornecedorRepository) ExistsBy(ctx context.Context, column, value string) (bool, error) {
	return r.gw.Exists(ctx, store.Filters{column: value})
}

func (r *FornecedorRepository) Create(ctx context.Context, f *fornecedor.Fornecedor) (*fornecedor.Fornecedor, error) {
	rows, err := r.gw.Insert(ctx, f)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *FornecedorRepository) Update(ctx context.Context, id string, patch map[string]any) (*fornecedor.Fornecedor, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.gw.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *FornecedorRepository) Delete(ctx context.Context, id string) (*fornecedor.Fornecedor, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.gw.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *FornecedorRepository) List(ctx context.Context, opts store.SelectOptions) ([]fornecedor.Fornecedor, int64, error) {
	res, err := r.gw.Select(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return res.Data, res.Count, nil
}

func first(rows []fornecedor.Fornecedor) *fornecedor.Fornecedor {
	if len(rows) == 0 {
		return nil
	}
	f := rows[0]
	return &f
}
