package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelstack/reelstack-api/internal/application"
	"github.com/reelstack/reelstack-api/internal/domain/entity"
	repo "github.com/reelstack/reelstack-api/internal/domain/repository"
	"github.com/reelstack/reelstack-api/pkg/helpers"
	"github.com/reelstack/reelstack-api/pkg/token"
)

// memStore is an in-memory credential store and role registry with
// the same contracts as the pgx implementations.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*entity.User // keyed by lower(username)
	roles  map[string]struct{}
	grants map[string][]string // user ID -> role names in grant order

	createErr error
	findErr   error
	assignErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*entity.User{},
		roles:  map[string]struct{}{},
		grants: map[string][]string{},
	}
}

func (s *memStore) Create(ctx context.Context, u *entity.User, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	key := strings.ToLower(u.Username)
	if _, exists := s.users[key]; exists {
		return repo.ErrDuplicateLogin
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.ID = uuid.NewString()
	u.PasswordHash = hash
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[key] = &cp
	return nil
}

func (s *memStore) FindByLoginName(ctx context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) VerifyPassword(u *entity.User, password string) bool {
	if u == nil {
		return false
	}
	return helpers.CheckPassword(u.PasswordHash, password)
}

func (s *memStore) GetRoles(ctx context.Context, u *entity.User) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.grants[u.ID]...), nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *memStore) List(ctx context.Context) ([]entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memStore) EnsureExist(ctx context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.roles[n] = struct{}{}
	}
	return nil
}

func (s *memStore) Assign(ctx context.Context, u *entity.User, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignErr != nil {
		return s.assignErr
	}
	if _, ok := s.roles[roleName]; !ok {
		return errors.New("role does not exist")
	}
	for _, r := range s.grants[u.ID] {
		if r == roleName {
			return nil
		}
	}
	s.grants[u.ID] = append(s.grants[u.ID], roleName)
	return nil
}

func newIdentityService(store *memStore) (*application.IdentityService, *token.Issuer) {
	iss := token.NewIssuer("testsecret", 168*time.Hour)
	return application.NewIdentityService(store, store, iss, nil), iss
}

func TestRegisterThenLogin(t *testing.T) {
	store := newMemStore()
	svc, iss := newIdentityService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Username)
	assert.NotEmpty(t, user.ID)

	stored := store.users["ana@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "ANA@EXAMPLE.COM", stored.NormalizedEmail)
	assert.Equal(t, []string{entity.RoleAdmin}, store.grants[stored.ID])

	res, err := svc.Login(ctx, "ana@example.com", "Secr3t!pass")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ana", res.User.Name)

	claims, err := iss.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Name)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestRegisterBootstrapsBothRoles(t *testing.T) {
	store := newMemStore()
	svc, _ := newIdentityService(store)

	_, err := svc.Register(context.Background(), "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)

	assert.Contains(t, store.roles, entity.RoleAdmin)
	assert.Contains(t, store.roles, entity.RoleRegistered)
}

func TestRegisterDuplicateLogin(t *testing.T) {
	store := newMemStore()
	svc, _ := newIdentityService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)

	// Same login name, different case and password.
	view, err := svc.Register(ctx, "Ana@Example.com", "otherpassword", "Impostor")
	assert.ErrorIs(t, err, repo.ErrDuplicateLogin)
	assert.Equal(t, entity.PublicUser{}, view)
	assert.Len(t, store.users, 1)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newMemStore()
	svc, _ := newIdentityService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)

	wrongPass, errWrong := svc.Login(ctx, "ana@example.com", "wrong")
	unknownUser, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever")

	assert.ErrorIs(t, errWrong, application.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, application.ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknownUser)
	assert.Empty(t, wrongPass.Token)
	assert.Nil(t, wrongPass.User)
}

func TestLoginCaseInsensitiveLookup(t *testing.T) {
	store := newMemStore()
	svc, _ := newIdentityService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ANA@EXAMPLE.COM", "Secr3t!pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLoginUsesFirstRoleClaim(t *testing.T) {
	store := newMemStore()
	svc, iss := newIdentityService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)
	require.NoError(t, store.Assign(ctx, &entity.User{ID: user.ID}, entity.RoleRegistered))

	res, err := svc.Login(ctx, "ana@example.com", "Secr3t!pass")
	require.NoError(t, err)
	claims, err := iss.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestRegisterRoleAssignmentFailureIsFatal(t *testing.T) {
	store := newMemStore()
	store.assignErr = errors.New("role store down")
	svc, _ := newIdentityService(store)

	_, err := svc.Register(context.Background(), "ana@example.com", "Secr3t!pass", "Ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assign default role")
}

func TestLoginStoreFailurePropagates(t *testing.T) {
	store := newMemStore()
	svc, _ := newIdentityService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "Secr3t!pass", "Ana")
	require.NoError(t, err)

	storeErr := errors.New("db down")
	store.findErr = storeErr
	_, err = svc.Login(ctx, "ana@example.com", "Secr3t!pass")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestEnsureRolesIdempotentUnderConcurrency(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.EnsureExist(ctx, entity.RoleAdmin, entity.RoleRegistered)
		}()
	}
	wg.Wait()

	assert.Len(t, store.roles, 2)
}
