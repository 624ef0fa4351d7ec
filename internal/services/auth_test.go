package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubevents/internal/domain"
)

type fakeUserRepo struct {
	byEmail  map[string]*domain.User
	assigned map[string][]string
	nextID   int
	err      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, assigned: map[string][]string{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.assigned[userID] = append(f.assigned[userID], roleID)
	return nil
}

type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode: map[string]*domain.Role{
			domain.RoleAdmin: domain.NewRole("r-admin", domain.RoleAdmin),
			domain.RoleUser:  domain.NewRole("r-user", domain.RoleUser),
		},
		listByUID: map[string][]*domain.Role{},
	}
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

type fakePasswordHasher struct {
	salt, hash string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) { return f.hash, nil }

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if password == "wrong" {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	token string
	roles []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	f.roles = roles
	return f.token, nil
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	userRepo := newFakeUserRepo()
	userRepo.byEmail["admin@club.org"] = &domain.User{ID: "u1", Email: "admin@club.org", PasswordHash: "h", Salt: "s", CreatedAt: now, UpdatedAt: now}
	roleRepo := newFakeRoleRepo()
	roleRepo.listByUID["u1"] = []*domain.Role{domain.NewRole("r-admin", domain.RoleAdmin)}
	issuer := &fakeTokenIssuer{token: "jwt-token-123"}
	svc := NewAuthService(userRepo, roleRepo, &fakePasswordHasher{}, issuer, time.Hour)

	token, err := svc.Login(ctx, " Admin@Club.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token-123", token)
	assert.Equal(t, []string{domain.RoleAdmin}, issuer.roles)

	_, err = svc.Login(ctx, "admin@club.org", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@club.org", "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{name: "success", username: "root", email: "Root@Club.org", password: "longenough"},
		{name: "short password", username: "root", email: "root@club.org", password: "short", wantErr: domain.ErrValidation},
		{name: "bad email", username: "root", email: "not-an-email", password: "longenough", wantErr: domain.ErrValidation},
		{name: "missing username", username: " ", email: "root@club.org", password: "longenough", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := newFakeUserRepo()
			svc := NewAuthService(userRepo, newFakeRoleRepo(), &fakePasswordHasher{salt: "s", hash: "h"}, &fakeTokenIssuer{}, time.Hour)

			user, err := svc.CreateAdmin(ctx, tt.username, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, userRepo.byEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "root@club.org", user.Email)
			assert.Equal(t, "h", user.PasswordHash)
			assert.Equal(t, "s", user.Salt)
			assert.Equal(t, []string{"r-admin"}, userRepo.assigned[user.ID])
		})
	}
}

func TestAuthService_CreateAdmin_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), newFakeRoleRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour)

	_, err := svc.CreateAdmin(ctx, "root", "root@club.org", "longenough")
	require.NoError(t, err)
	_, err = svc.CreateAdmin(ctx, "root2", "root@club.org", "longenough")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}
