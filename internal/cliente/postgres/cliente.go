package postgres

import (
	"context"
	"log/slog"

	"github.com/dchesque/app-loja/internal/cliente"
	"github.com/dchesque/app-loja/internal/store"
	"gorm.io/gorm"
)

// ClienteRepository implements cliente.Repository on the generic gateway.
type ClienteRepository struct {
	gw *store.Gateway[cliente.Cliente]
}

func NewClienteRepository(db *gorm.DB, lg *slog.Logger) *ClienteRepository {
	return &ClienteRepository{gw: store.NewGateway[cliente.Cliente](db, lg)}
}

var _ cliente.Repository = (*ClienteRepository)(nil)

func (r *ClienteRepository) InTx(ctx context.Context, fn func(tx cliente.Repository) error) error {
	return r.gw.Transaction(ctx, func(tx *store.Gateway[cliente.Cliente]) error {
		return fn(&ClienteRepository{gw: tx})
	})
}

func (r *ClienteRepository) FindByID(ctx context.Context, id string) (*cliente.Cliente, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.gw.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *ClienteRepository) ExistsBy(ctx context.Context, column, value string) (bool, error) {
	return r.gw.Exists(ctx, store.Filters{column: value})
}

func (r *ClienteRepository) Create(ctx context.Context, c *cliente.Cliente) (*cliente.Cliente, error) {
	rows, err := r.gw.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *ClienteRepository) Update(ctx context.Context, id string, patch map[string]any) (*cliente.Cliente, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.gw.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *ClienteRepository) Delete(ctx context.Context, id string) (*cliente.Cliente, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.gw.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *ClienteRepository) List(ctx context.Context, opts store.SelectOptions) ([]cliente.Cliente, int64, error) {
	res, err := r.gw.Select(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return res.Data, res.Count, nil
}

func first(rows []cliente.Cliente) *cliente.Cliente {
	if len(rows) == 0 {
		return nil
	}
	c := rows[0]
	return &c
}
