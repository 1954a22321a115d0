package cliente

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dchesque/app-loja/internal"
	"github.com/dchesque/app-loja/internal/store"
	"github.com/dchesque/app-loja/pkg/logger"
	"github.com/google/uuid"
)

const msgClienteRemoved = "Cliente removido com sucesso"

var (
	ErrClienteNotFound = internal.NewNotFoundError("Cliente não encontrado", internal.ErrCodeClienteNotFound)
	ErrCPFExists       = internal.NewConflictError("Cliente já existe com este CPF", internal.ErrCodeDuplicateCPF)
	ErrCodigoExists    = internal.NewConflictError("Cliente já existe com este código", internal.ErrCodeDuplicateCodigo)
	ErrCPFTaken        = internal.NewConflictError("CPF já existe para outro cliente", internal.ErrCodeDuplicateCPF)
	ErrCodigoTaken     = internal.NewConflictError("Código já existe para outro cliente", internal.ErrCodeDuplicateCodigo)
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{repo: repo, logger: lg, now: time.Now}
}

// Create inserts a cliente after checking cpf and codigo are free. The checks
// and the insert share one transaction.
func (s *Service) Create(ctx context.Context, callerID string, dto CreateClienteDTO) (*Cliente, error) {
	c := dto.ToModel()
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	if callerID != "" {
		c.CreatedBy = &callerID
	}

	var created *Cliente
	err := s.repo.InTx(ctx, func(tx Repository) error {
		if err := ensureFree(ctx, tx, "cpf", c.CPF, ErrCPFExists); err != nil {
			return err
		}
		if err := ensureFree(ctx, tx, "codigo", c.Codigo, ErrCodigoExists); err != nil {
			return err
		}

		var err error
		created, err = tx.Create(ctx, c)
		return err
	})
	if err != nil {
		return nil, conflict(err)
	}

	logger.From(ctx).Info("cliente created", "cliente_id", created.ID, "codigo", created.Codigo)
	return created, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Cliente, int64, error) {
	q.Normalize()
	return s.repo.List(ctx, q.SelectOptions())
}

func (s *Service) Get(ctx context.Context, id string) (*Cliente, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClienteNotFound
	}
	return c, nil
}

// Update applies a partial update. Uniqueness is only re-checked for keys
// that actually change.
func (s *Service) Update(ctx context.Context, callerID, id string, dto UpdateClienteDTO) (*Cliente, error) {
	patch := dto.ToPatch()
	patch["updated_at"] = s.now()
	if callerID != "" {
		patch["updated_by"] = callerID
	}

	var updated *Cliente
	err := s.repo.InTx(ctx, func(tx Repository) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrClienteNotFound
		}

		if dto.CPF != nil && *dto.CPF != existing.CPF {
			if err := ensureFree(ctx, tx, "cpf", *dto.CPF, ErrCPFTaken); err != nil {
				return err
			}
		}
		if dto.Codigo != nil && *dto.Codigo != existing.Codigo {
			if err := ensureFree(ctx, tx, "codigo", *dto.Codigo, ErrCodigoTaken); err != nil {
				return err
			}
		}

		updated, err = tx.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrClienteNotFound
		}
		return nil
	})
	if err != nil {
		return nil, conflict(err)
	}
	return updated, nil
}

// Delete removes the row and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrClienteNotFound
	}

	logger.From(ctx).Info("cliente removed", "cliente_id", id)
	return &DeleteResult{Message: msgClienteRemoved, Cliente: deleted}, nil
}

func ensureFree(ctx context.Context, tx Repository, column, value string, taken *internal.AppError) error {
	exists, err := tx.ExistsBy(ctx, column, value)
	if err != nil {
		return err
	}
	if exists {
		return taken
	}
	return nil
}

// conflict maps a unique violation that got past the checks to a 409.
func conflict(err error) error {
	if errors.Is(err, store.ErrDuplicateKey) {
		return internal.ErrDuplicateKey.WithCause(err)
	}
	return err
}
