package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

// Service serves user lookups shared by the auth middleware and the
// profile endpoint.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AccountStatus(ctx context.Context, id uuid.UUID) (enums.UserStatus, error)
}

type service struct {
	repo Repository
}

// NewService wires user dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	return user, nil
}

func (s *service) AccountStatus(ctx context.Context, id uuid.UUID) (enums.UserStatus, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}
