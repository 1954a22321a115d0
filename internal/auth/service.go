package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dchesque/app-loja/internal"
	coreuser "github.com/dchesque/app-loja/internal/core/user"
	"github.com/dchesque/app-loja/internal/store"
	"github.com/dchesque/app-loja/pkg/logger"
	"github.com/google/uuid"
)

// UserRepository reads and writes the users table. Lookups return (nil, nil)
// when no row matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, id string, patch map[string]any) (*User, error)
	List(ctx context.Context, page, pageSize int) ([]User, int64, error)
}

var (
	errUserNotFound = internal.NewNotFoundError("Usuário não encontrado", internal.ErrCodeUserNotFound)
	errEmailInUse   = internal.NewConflictError("E-mail já está em uso", internal.ErrCodeEmailInUse)
)

const msgUserDeactivated = "Usuário desativado com sucesso"

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	hasher         PasswordHasher
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, hasher PasswordHasher, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		hasher:         hasher,
		logger:         lg,
		now:            time.Now,
	}
}

// Login validates credentials and issues a token.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrInvalidCredentials
	}
	if !u.Active {
		return nil, internal.ErrUserInactive
	}
	if !s.hasher.Compare(u.PasswordHash, dto.Password) {
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if _, err := s.userRepo.Update(ctx, u.ID, map[string]any{"last_login": now}); err != nil {
		logger.From(ctx).Warn("failed to record last login", "user_id", u.ID, "error", err)
	} else {
		u.LastLogin = &now
	}

	return &LoginResult{User: u, Token: token}, nil
}

// Authenticate turns a bearer token into the caller identity. The role is
// taken from the token; the user row only has to exist.
func (s *Service) Authenticate(ctx context.Context, token string) (coreuser.Identity, error) {
	if token == "" {
		return coreuser.Identity{}, internal.ErrUnauthenticated
	}

	claims, err := s.tokenGenerator.ValidateToken(token)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return coreuser.Identity{}, internal.ErrTokenExpired
	case errors.Is(err, ErrInvalidToken):
		return coreuser.Identity{}, internal.ErrInvalidToken
	case err != nil:
		return coreuser.Identity{}, err
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		logger.From(ctx).Warn("token user lookup failed", "user_id", claims.UserID, "error", err)
		return coreuser.Identity{}, internal.ErrTokenUserNotFound
	}
	if u == nil {
		return coreuser.Identity{}, internal.ErrTokenUserNotFound
	}

	return claims.Identity(), nil
}

// Me returns the caller's own record.
func (s *Service) Me(ctx context.Context, id string) (*User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

// Register creates an account on behalf of caller.
func (s *Service) Register(ctx context.Context, caller coreuser.Identity, dto CreateUserDTO) (*User, error) {
	if !caller.CanManage(dto.Role) {
		return nil, internal.NewForbiddenError("Você não tem permissão para criar um usuário MASTER_ADMIN", internal.ErrCodeMasterAdminOnly)
	}

	exists, err := s.userRepo.EmailExists(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailInUse
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, err
	}

	createdBy := caller.ID
	u, err := s.userRepo.Create(ctx, &User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: hash,
		Name:         dto.Name,
		Role:         dto.Role,
		Active:       dto.IsActive(),
		CreatedAt:    s.now(),
		CreatedBy:    &createdBy,
	})
	if errors.Is(err, store.ErrDuplicateKey) {
		return nil, errEmailInUse.WithCause(err)
	}
	if err != nil {
		return nil, err
	}

	logger.From(ctx).Info("user registered", "target_user_id", u.ID, "role", u.Role, "created_by", caller.ID)
	return u, nil
}

// ListUsers pages through accounts, newest first.
func (s *Service) ListUsers(ctx context.Context, q ListUsersQuery) ([]User, int64, error) {
	q.Normalize()
	return s.userRepo.List(ctx, q.Page, q.PageSize)
}

// UpdateUser applies a partial update to the account with the given id.
func (s *Service) UpdateUser(ctx context.Context, caller coreuser.Identity, id string, dto UpdateUserDTO) (*User, error) {
	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errUserNotFound
	}

	if !caller.CanManage(existing.Role) {
		return nil, internal.NewForbiddenError("Você não tem permissão para modificar um usuário MASTER_ADMIN", internal.ErrCodeMasterAdminOnly)
	}
	if dto.Role != nil && !caller.CanManage(*dto.Role) {
		return nil, internal.NewForbiddenError("Você não tem permissão para promover um usuário a MASTER_ADMIN", internal.ErrCodeMasterAdminOnly)
	}

	patch := map[string]any{}
	if dto.Email != nil && *dto.Email != existing.Email {
		exists, err := s.userRepo.EmailExists(ctx, *dto.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errEmailInUse
		}
		patch["email"] = *dto.Email
	}
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			return nil, err
		}
		patch["password"] = hash
	}
	if dto.Name != nil {
		patch["name"] = *dto.Name
	}
	if dto.Role != nil {
		patch["role"] = *dto.Role
	}
	if dto.Active != nil {
		patch["active"] = *dto.Active
	}
	patch["updated_at"] = s.now()
	patch["updated_by"] = caller.ID

	u, err := s.userRepo.Update(ctx, id, patch)
	if errors.Is(err, store.ErrDuplicateKey) {
		return nil, errEmailInUse.WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

// DeactivateUser soft-deletes an account by clearing its active flag.
func (s *Service) DeactivateUser(ctx context.Context, caller coreuser.Identity, id string) (*DeactivateResult, error) {
	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errUserNotFound
	}
	if !caller.CanManage(existing.Role) {
		return nil, internal.NewForbiddenError("Você não tem permissão para desativar um usuário MASTER_ADMIN", internal.ErrCodeMasterAdminOnly)
	}

	u, err := s.userRepo.Update(ctx, id, map[string]any{
		"active":     false,
		"updated_at": s.now(),
		"updated_by": caller.ID,
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}

	logger.From(ctx).Info("user deactivated", "target_user_id", id, "by", caller.ID)
	return &DeactivateResult{Message: msgUserDeactivated, User: u}, nil
}
