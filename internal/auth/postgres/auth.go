package postgres

import (
	"context"
	"log/slog"

	"github.com/dchesque/app-loja/internal/auth"
	userDatamodel "github.com/dchesque/app-loja/internal/core/datamodel/user"
	"github.com/dchesque/app-loja/internal/store"
	"gorm.io/gorm"
)

// userColumns is every column except the password hash.
var userColumns = []string{
	"id", "email", "name", "role", "active", "last_login",
	"created_at", "updated_at", "created_by", "updated_by",
}

// Repository implements auth.UserRepository on top of the users gateway.
type Repository struct {
	users *store.Gateway[userDatamodel.User]
}

func NewRepository(db *gorm.DB, lg *slog.Logger) *Repository {
	return &Repository{
		users: store.NewGateway[userDatamodel.User](db, lg),
	}
}

var _ auth.UserRepository = (*Repository)(nil)

func (r *Repository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	res, err := r.users.Select(ctx, store.SelectOptions{Filters: store.Filters{"email": email}})
	if err != nil {
		return nil, err
	}
	return first(res.Data), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.users.Exists(ctx, store.Filters{"email": email})
}

func (r *Repository) Create(ctx context.Context, u *auth.User) (*auth.User, error) {
	rows, err := r.users.Insert(ctx, u)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *Repository) Update(ctx context.Context, id string, patch map[string]any) (*auth.User, error) {
	if !store.IsUUID(id) {
		return nil, nil
	}
	rows, err := r.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

// List returns one page of users without password hashes, newest first.
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]auth.User, int64, error) {
	res, err := r.users.Select(ctx, store.SelectOptions{
		Columns:    userColumns,
		Order:      &store.Order{Column: "created_at", Descending: true},
		Pagination: &store.Pagination{Page: page, PageSize: pageSize},
	})
	if err != nil {
		return nil, 0, err
	}
	return res.Data, res.Count, nil
}

func first(rows []auth.User) *auth.User {
	if len(rows) == 0 {
		return nil
	}
	u := rows[0]
	return &u
}
