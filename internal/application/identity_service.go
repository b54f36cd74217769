package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
	repo "github.com/reelstack/reelstack-api/internal/domain/repository"
	"github.com/reelstack/reelstack-api/pkg/token"
)

// ErrInvalidCredentials covers both an unknown login name and a
// wrong password. Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityService orchestrates registration and login over the
// credential store, the role registry and the token issuer.
type IdentityService struct {
	Users  repo.UserRepository
	Roles  repo.RoleRepository
	Issuer *token.Issuer
	Logger *logrus.Logger
}

func NewIdentityService(users repo.UserRepository, roles repo.RoleRepository, issuer *token.Issuer, logger *logrus.Logger) *IdentityService {
	return &IdentityService{Users: users, Roles: roles, Issuer: issuer, Logger: logger}
}

// LoginResult is what a login attempt yields. A failed attempt has
// an empty token and a nil user regardless of why it failed.
type LoginResult struct {
	Token string             `json:"token"`
	User  *entity.PublicUser `json:"user"`
}

// Register creates a user, provisions the well-known roles if this
// is the first registration, assigns the default role and returns
// the persisted user's public view.
//
// A duplicate login name surfaces as repository.ErrDuplicateLogin so
// callers can distinguish it from store failures. A role
// provisioning failure after the user row exists is reported as an
// error rather than a success, since a user without a role cannot
// obtain a token claim.
func (s *IdentityService) Register(ctx context.Context, loginName, password, displayName string) (entity.PublicUser, error) {
	u := &entity.User{
		Username:        loginName,
		Email:           loginName,
		NormalizedEmail: strings.ToUpper(loginName),
		Name:            displayName,
	}

	if err := s.Users.Create(ctx, u, password); err != nil {
		if errors.Is(err, repo.ErrDuplicateLogin) {
			return entity.PublicUser{}, err
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Error("user creation failed")
		}
		return entity.PublicUser{}, err
	}

	if err := s.Roles.EnsureExist(ctx, entity.RoleAdmin, entity.RoleRegistered); err != nil {
		return entity.PublicUser{}, fmt.Errorf("provision roles: %w", err)
	}
	if err := s.Roles.Assign(ctx, u, entity.RoleAdmin); err != nil {
		return entity.PublicUser{}, fmt.Errorf("assign default role: %w", err)
	}

	persisted, err := s.Users.FindByLoginName(ctx, loginName)
	if err != nil {
		return entity.PublicUser{}, err
	}
	if s.Logger != nil {
		s.Logger.WithField("username", persisted.Username).Info("user registered")
	}
	return persisted.Public(), nil
}

// Login verifies credentials and mints a session token carrying the
// user's first role. Unknown user and wrong password both return
// ErrInvalidCredentials; store I/O failures propagate as themselves.
func (s *IdentityService) Login(ctx context.Context, loginName, password string) (LoginResult, error) {
	u, err := s.Users.FindByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.Users.VerifyPassword(u, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	roles, err := s.Users.GetRoles(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}
	roleClaim := ""
	if len(roles) > 0 {
		roleClaim = roles[0]
	}

	tok, _, err := s.Issuer.Issue(u.Username, roleClaim)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", u.Username).Error("token issue failed")
		}
		return LoginResult{}, err
	}

	pub := u.Public()
	return LoginResult{Token: tok, User: &pub}, nil
}

// GetUser returns the public view of a single user.
func (s *IdentityService) GetUser(ctx context.Context, id string) (entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return entity.PublicUser{}, err
	}
	return u.Public(), nil
}

// ListUsers returns public views ordered by username.
func (s *IdentityService) ListUsers(ctx context.Context) ([]entity.PublicUser, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}
