package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server/auth"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
	userrepo "github.com/dmitrijs2005/expensetracker/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newService(repo userrepo.Repository) *Service {
	return NewService(repo, secret, time.Minute, logging.NopLogger{})
}

// brokenRepo fails every call with a storage error.
type brokenRepo struct{ userrepo.Repository }

var errDB = errors.New("db down")

func (brokenRepo) Create(context.Context, *models.User) error { return errDB }
func (brokenRepo) GetByUserName(context.Context, string) (*models.User, error) {
	return nil, errDB
}
func (brokenRepo) GetByID(context.Context, string) (*models.User, error) { return nil, errDB }
func (brokenRepo) SetPremium(context.Context, string, bool) error        { return errDB }

func TestService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(userrepo.NewMemoryRepository())

	reg, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.User.ID)
	assert.Equal(t, "alice", reg.User.UserName)
	assert.False(t, reg.User.IsPremium)
	assert.NotContains(t, reg.User.PasswordHash, "s3cret")

	uid, err := auth.GetUserIDFromToken(reg.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, uid)

	login, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newService(userrepo.NewMemoryRepository())

	_, err := svc.Register(ctx, "alice", "one")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice", "two")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestService_Login_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService(userrepo.NewMemoryRepository())
	_, err := svc.Register(ctx, "alice", "right")
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     string
		password string
		want     error
	}{
		{"wrong password", "alice", "wrong", common.ErrUnauthorized},
		{"unknown user", "bob", "right", common.ErrUnauthorized},
		{"empty username", "  ", "right", common.ErrInvalidArgument},
		{"empty password", "alice", "", common.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.user, tt.password)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_SetPremium(t *testing.T) {
	ctx := context.Background()
	svc := newService(userrepo.NewMemoryRepository())
	reg, err := svc.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	acc, err := svc.SetPremium(ctx, reg.User.ID, true)
	require.NoError(t, err)
	assert.True(t, acc.User.IsPremium)
	assert.NotEmpty(t, acc.Token)

	u, err := svc.Get(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, u.IsPremium)

	_, err = svc.SetPremium(ctx, "missing", true)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_StorageErrorsBecomeInternal(t *testing.T) {
	ctx := context.Background()
	svc := newService(brokenRepo{})

	_, err := svc.Register(ctx, "alice", "pw")
	assert.ErrorIs(t, err, common.ErrInternal)
	_, err = svc.Login(ctx, "alice", "pw")
	assert.ErrorIs(t, err, common.ErrInternal)
	_, err = svc.SetPremium(ctx, "u1", true)
	assert.ErrorIs(t, err, common.ErrInternal)
	_, err = svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestService_Login_CorruptHash(t *testing.T) {
	ctx := context.Background()
	repo := userrepo.NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", UserName: "alice", PasswordHash: "plain"}))

	_, err := newService(repo).Login(ctx, "alice", "pw")
	require.ErrorIs(t, err, common.ErrInternal)
}
