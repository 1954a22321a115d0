package cliente_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/cliente"
	"github.com/dchesque/app-loja/internal/core/common/query"
	"github.com/dchesque/app-loja/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of cliente.Repository. InTx runs
// fn against the mock itself.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InTx(ctx context.Context, fn func(tx cliente.Repository) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*cliente.Cliente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.Cliente), args.Error(1)
}

func (m *MockRepository) ExistsBy(ctx context.Context, column, value string) (bool, error) {
	args := m.Called(ctx, column, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *cliente.Cliente) (*cliente.Cliente, error) {
	args := m.Called(ctx, c)
	if fn, ok := args.Get(0).(func(context.Context, *cliente.Cliente) *cliente.Cliente); ok {
		return fn(ctx, c), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.Cliente), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, patch map[string]any) (*cliente.Cliente, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.Cliente), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) (*cliente.Cliente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.Cliente), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts store.SelectOptions) ([]cliente.Cliente, int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]cliente.Cliente), args.Get(1).(int64), args.Error(2)
}

func strPtr(s string) *string { return &s }

func newDTO() cliente.CreateClienteDTO {
	return cliente.CreateClienteDTO{
		Codigo:         "C001",
		Loja:           "Centro",
		Nome:           "Maria",
		CPF:            "123.456.789-09",
		NomeCliente:    "Maria da Silva",
		DataNascimento: strPtr("1990-05-17"),
		UF:             strPtr("SP"),
	}
}

func TestClienteService_Create(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	mockRepo.On("InTx", ctx).Return().Once()
	mockRepo.On("ExistsBy", ctx, "cpf", "123.456.789-09").Return(false, nil).Once()
	mockRepo.On("ExistsBy", ctx, "codigo", "C001").Return(false, nil).Once()
	mockRepo.On("Create", ctx, mock.Anything).
		Return(func(_ context.Context, c *cliente.Cliente) *cliente.Cliente { return c }, nil).Once()

	created, err := service.Create(ctx, "u-admin", newDTO())

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u-admin", *created.CreatedBy)
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), *created.DataNascimento)
	assert.False(t, created.CreatedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestClienteService_CreateDuplicateCPF(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	mockRepo.On("InTx", ctx).Return().Once()
	mockRepo.On("ExistsBy", ctx, "cpf", "123.456.789-09").Return(true, nil).Once()

	created, err := service.Create(ctx, "u-admin", newDTO())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, cliente.ErrCPFExists)
	assert.EqualError(t, err, "Cliente já existe com este CPF")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_CreateDuplicateCodigo(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	mockRepo.On("InTx", ctx).Return().Once()
	mockRepo.On("ExistsBy", ctx, "cpf", mock.Anything).Return(false, nil).Once()
	mockRepo.On("ExistsBy", ctx, "codigo", "C001").Return(true, nil).Once()

	_, err := service.Create(ctx, "u-admin", newDTO())

	assert.ErrorIs(t, err, cliente.ErrCodigoExists)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_CreateRaceLostToUniqueIndex(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	mockRepo.On("InTx", ctx).Return().Once()
	mockRepo.On("ExistsBy", ctx, mock.Anything, mock.Anything).Return(false, nil).Twice()
	mockRepo.On("Create", ctx, mock.Anything).Return(nil, fmt.Errorf("insert clientes: %w", store.ErrDuplicateKey)).Once()

	_, err := service.Create(ctx, "u-admin", newDTO())

	appErr, ok := internal.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_Get(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	expected := &cliente.Cliente{ID: "c1", Nome: "Maria"}
	mockRepo.On("FindByID", ctx, "c1").Return(expected, nil).Once()
	mockRepo.On("FindByID", ctx, "c2").Return(nil, nil).Once()

	got, err := service.Get(ctx, "c1")
	assert.NoError(t, err)
	assert.Equal(t, expected, got)

	got, err = service.Get(ctx, "c2")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, cliente.ErrClienteNotFound)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_List(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	mockRepo.On("List", ctx, mock.MatchedBy(func(opts store.SelectOptions) bool {
		return opts.Pagination.Page == 1 &&
			opts.Pagination.PageSize == query.MaxPageSize &&
			opts.Order.Column == "nome" && !opts.Order.Descending &&
			opts.Filters["nome"] == store.Like("mar") &&
			opts.Filters["uf"] == "SP" &&
			opts.Filters["cpf"] == nil
	})).Return([]cliente.Cliente{{ID: "c1"}}, int64(1), nil).Once()

	rows, total, err := service.List(ctx, cliente.ListQuery{
		Page:    query.Page{Page: -1, PageSize: 1000, OrderDirection: "ASC"},
		OrderBy: "nome",
		Nome:    "mar",
		UF:      "SP",
	})

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_UpdateChecksOnlyChangedKeys(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	existing := &cliente.Cliente{ID: "c1", Codigo: "C001", CPF: "123.456.789-09"}
	updated := &cliente.Cliente{ID: "c1", Codigo: "C002", CPF: "123.456.789-09", Nome: "Maria"}

	mockRepo.On("InTx", ctx).Return().Once()
	mockRepo.On("FindByID", ctx, "c1").Return(existing, nil).Once()
	mockRepo.On("ExistsBy", ctx, "codigo", "C002").Return(false, nil).Once()
	mockRepo.On("Update", ctx, "c1", mock.MatchedBy(func(patch map[string]any) bool {
		_, hasStamp := patch["updated_at"]
		return patch["codigo"] == "C002" &&
			patch["cpf"] == "123.456.789-09" &&
			patch["updated_by"] == "u-admin" &&
			hasStamp
	})).Return(updated, nil).Once()

	got, err := service.Update(ctx, "u-admin", "c1", cliente.UpdateClienteDTO{
		Codigo: strPtr("C002"),
		CPF:    strPtr("123.456.789-09"),
	})

	assert.NoError(t, err)
	assert.Equal(t, updated, got)
	mockRepo.AssertNotCalled(t, "ExistsBy", ctx, "cpf", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_UpdateConflicts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	existing := &cliente.Cliente{ID: "c1", Codigo: "C001", CPF: "123.456.789-09"}
	mockRepo.On("InTx", ctx).Return()
	mockRepo.On("FindByID", ctx, "c1").Return(existing, nil)
	mockRepo.On("ExistsBy", ctx, "cpf", "987.654.321-00").Return(true, nil).Once()
	mockRepo.On("ExistsBy", ctx, "codigo", "C009").Return(true, nil).Once()

	_, err := service.Update(ctx, "u-admin", "c1", cliente.UpdateClienteDTO{CPF: strPtr("987.654.321-00")})
	assert.ErrorIs(t, err, cliente.ErrCPFTaken)
	assert.EqualError(t, err, "CPF já existe para outro cliente")

	_, err = service.Update(ctx, "u-admin", "c1", cliente.UpdateClienteDTO{Codigo: strPtr("C009")})
	assert.ErrorIs(t, err, cliente.ErrCodigoTaken)
	assert.EqualError(t, err, "Código já existe para outro cliente")

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestClienteService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	mockRepo.On("InTx", ctx).Return().Once()
	mockRepo.On("FindByID", ctx, "nope").Return(nil, nil).Once()

	_, err := service.Update(ctx, "u-admin", "nope", cliente.UpdateClienteDTO{Nome: strPtr("x")})

	assert.ErrorIs(t, err, cliente.ErrClienteNotFound)
	mockRepo.AssertExpectations(t)
}

func TestClienteService_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := cliente.NewService(mockRepo, nil)

	removed := &cliente.Cliente{ID: "c1"}
	mockRepo.On("Delete", ctx, "c1").Return(removed, nil).Once()
	mockRepo.On("Delete", ctx, "c1").Return(nil, nil).Once()
	mockRepo.On("Delete", ctx, "c2").Return(nil, errors.New("connection reset")).Once()

	res, err := service.Delete(ctx, "c1")
	assert.NoError(t, err)
	assert.Equal(t, "Cliente removido com sucesso", res.Message)
	assert.Equal(t, removed, res.Cliente)

	_, err = service.Delete(ctx, "c1")
	assert.ErrorIs(t, err, cliente.ErrClienteNotFound)

	_, err = service.Delete(ctx, "c2")
	assert.EqualError(t, err, "connection reset")
	mockRepo.AssertExpectations(t)
}

func TestUpdateClienteDTO_ToPatch(t *testing.T) {
	patch := cliente.UpdateClienteDTO{
		Nome:           strPtr("Maria"),
		DataNascimento: strPtr(""),
	}.ToPatch()

	assert.Equal(t, map[string]any{"nome": "Maria", "data_nascimento": nil}, patch)

	patch = cliente.UpdateClienteDTO{DataNascimento: strPtr("2001-12-31")}.ToPatch()
	assert.Equal(t, time.Date(2001, 12, 31, 0, 0, 0, 0, time.UTC), patch["data_nascimento"])
}
