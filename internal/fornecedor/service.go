package fornecedor

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

const msgFornecedorRemoved = "Fornecedor removido com sucesso"

var (
	ErrFornecedorNotFound = internal.NewNotFoundError("Fornecedor não encontrado", internal.ErrCodeFornecedorNotFound)
	ErrCNPJExists         = internal.NewConflictError("Fornecedor já existe com este CNPJ", internal.ErrCodeDuplicateCNPJ)
	ErrCodigoExists       = internal.NewConflictError("Fornecedor já existe com este código", internal.ErrCodeDuplicateCodigo)
	ErrCNPJTaken          = internal.NewConflictError("CNPJ já existe para outro fornecedor", internal.ErrCodeDuplicateCNPJ)
	ErrCodigoTaken        = internal.NewConflictError("Código já existe para outro fornecedor", internal.ErrCodeDuplicateCodigo)
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

// Create inserts a fornecedor. cnpj is always checked; codigo only when one
// was given.
func (s *Service) Create(ctx context.Context, callerID string, dto CreateFornecedorDTO) (*Fornecedor, error) {
	f := dto.ToModel()
	f.ID = uuid.NewString()
	f.CreatedAt = s.now()
	if callerID != "" {
		f.CreatedBy = &callerID
	}

	var created *Fornecedor
	err := s.repo.InTx(ctx, func(tx Repository) error {
		if err := ensureFree(ctx, tx, "cnpj", f.CNPJ, ErrCNPJExists); err != nil {
			return err
		}
		if f.Codigo != nil {
			if err := ensureFree(ctx, tx, "codigo", *f.Codigo, ErrCodigoExists); err != nil {
				return err
			}
		}

		var err error
		created, err = tx.Create(ctx, f)
		return err
	})
	if err != nil {
		return nil, conflict(err)
	}

	logger.From(ctx).Info("fornecedor created", "fornecedor_id", created.ID, "cnpj", created.CNPJ)
	return created, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Fornecedor, int64, error) {
	q.Normalize()
	return s.repo.List(ctx, q.SelectOptions())
}

func (s *Service) Get(ctx context.Context, id string) (*Fornecedor, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFornecedorNotFound
	}
	return f, nil
}

func (s *Service) Update(ctx context.Context, callerID, id string, dto UpdateFornecedorDTO) (*Fornecedor, error) {
	patch := dto.ToPatch()
	patch["updated_at"] = s.now()
	if callerID != "" {
		patch["updated_by"] = callerID
	}

	var updated *Fornecedor
	err := s.repo.InTx(ctx, func(tx Repository) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrFornecedorNotFound
		}

		if dto.CNPJ != nil && *dto.CNPJ != existing.CNPJ {
			if err := ensureFree(ctx, tx, "cnpj", *dto.CNPJ, ErrCNPJTaken); err != nil {
				return err
			}
		}
		if dto.Codigo != nil && (existing.Codigo == nil || *dto.Codigo != *existing.Codigo) {
			if err := ensureFree(ctx, tx, "codigo", *dto.Codigo, ErrCodigoTaken); err != nil {
				return err
			}
		}

		updated, err = tx.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrFornecedorNotFound
		}
		return nil
	})
	if err != nil {
		return nil, conflict(err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrFornecedorNotFound
	}

	logger.From(ctx).Info("fornecedor removed", "fornecedor_id", id)
	return &DeleteResult{Message: msgFornecedorRemoved, Fornecedor: deleted}, nil
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

func conflict(err error) error {
	if errors.Is(err, store.ErrDuplicateKey) {
		return internal.ErrDuplicateKey.WithCause(err)
	}
	return err
}
