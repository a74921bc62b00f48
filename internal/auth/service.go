package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jubahomez/jubahomez-backend/internal/users"
	pkgauth "github.com/jubahomez/jubahomez-backend/pkg/auth"
	"github.com/jubahomez/jubahomez-backend/pkg/config"
	"github.com/jubahomez/jubahomez-backend/pkg/db"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/security"
)

// Service implements registration and login.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type service struct {
	repo   users.Repository
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	now    func() time.Time
}

// RegisterParams carries the self-service signup payload. Admin accounts
// are never created through this path.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Phone    *string
	Role     enums.UserRole
}

// LoginResult bundles the minted token with the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewService wires auth dependencies.
func NewService(repo users.Repository, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{
		repo:   repo,
		jwtCfg: jwtCfg,
		pwCfg:  pwCfg,
		now:    time.Now,
	}, nil
}

var registerableRoles = map[enums.UserRole]struct{}{
	enums.UserRoleCustomer:     {},
	enums.UserRoleOwner:        {},
	enums.UserRoleBroker:       {},
	enums.UserRolePhotographer: {},
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(params.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, ok := registerableRoles[params.Role]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(params.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(params.Name),
		Phone:        params.Phone,
		Role:         params.Role,
		Status:       enums.UserStatusPending,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return &user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials")
	}

	if user.Status != enums.UserStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Account is not active")
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err == nil {
		user.LastLoginAt = &now
	}

	return &LoginResult{Token: token, User: user}, nil
}
