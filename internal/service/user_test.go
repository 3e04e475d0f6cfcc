package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avoropaev/accounts-server/internal/mocks"
	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/testutil"
)

func newUserService(users model.UserStore, hasher model.PasswordHasher) *User {
	return NewUser(users, hasher, testutil.MakeNoopLogger())
}

func TestUser_GetProfileByUsername(t *testing.T) {
	ctx := context.Background()
	want := model.User{ID: uuid.New(), Username: "alice", DisplayName: "Alice"}

	users := &mocks.UserStore{}
	users.On("GetByUsername", ctx, "alice").Return(want, nil).Once()

	svc := newUserService(users, &mocks.PasswordHasher{})

	got, err := svc.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUser_GetProfileByUsername_NotFound(t *testing.T) {
	ctx := context.Background()

	users := &mocks.UserStore{}
	users.On("GetByUsername", ctx, "ghost").Return(model.User{}, model.ErrNotFound).Once()

	svc := newUserService(users, &mocks.PasswordHasher{})

	_, err := svc.GetProfileByUsername(ctx, "ghost")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUser_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	bio := "gopher"
	name := "Alice L."
	existing := model.User{ID: uuid.New(), Username: "alice", DisplayName: "alice"}

	users := &mocks.UserStore{}
	users.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
	users.On("UpdateProfile", ctx, mock.MatchedBy(func(u model.User) bool {
		return u.ID == existing.ID && u.DisplayName == name && u.Bio != nil && *u.Bio == bio
	})).Return(model.User{ID: existing.ID, Username: "alice", DisplayName: name, Bio: &bio}, nil).Once()

	svc := newUserService(users, &mocks.PasswordHasher{})

	updated, err := svc.UpdateProfile(ctx, existing.ID, UpdateProfileParams{DisplayName: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, name, updated.DisplayName)
	users.AssertExpectations(t)
}

func TestUser_UpdateProfile_NilFieldsKeepCurrent(t *testing.T) {
	ctx := context.Background()
	bio := "gopher"
	existing := model.User{ID: uuid.New(), Username: "alice", DisplayName: "Alice", Bio: &bio}

	users := &mocks.UserStore{}
	users.On("GetByID", ctx, existing.ID).Return(existing, nil).Once()
	users.On("UpdateProfile", ctx, mock.MatchedBy(func(u model.User) bool {
		return u.DisplayName == "Alice" && u.Bio == &bio
	})).Return(existing, nil).Once()

	svc := newUserService(users, &mocks.PasswordHasher{})

	_, err := svc.UpdateProfile(ctx, existing.ID, UpdateProfileParams{})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUser_ChangePassword(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), PasswordHash: "$2a$12$old"}

	users := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}

	users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	hasher.On("Verify", "OldPass1", user.PasswordHash).Return(true, nil).Once()
	hasher.On("Hash", "NewPass1").Return("$2a$12$new", nil).Once()
	users.On("UpdatePassword", ctx, user.ID, "$2a$12$new").Return(nil).Once()

	svc := newUserService(users, hasher)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "OldPass1", "NewPass1"))
	users.AssertExpectations(t)
}

func TestUser_ChangePassword_WrongCurrent(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), PasswordHash: "$2a$12$old"}

	users := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}

	users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	hasher.On("Verify", "wrong", user.PasswordHash).Return(false, nil).Once()

	svc := newUserService(users, hasher)

	err := svc.ChangePassword(ctx, user.ID, "wrong", "NewPass1")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), PasswordHash: "$2a$12$hash"}

	users := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}

	users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	hasher.On("Verify", "Password1", user.PasswordHash).Return(true, nil).Once()
	users.On("Delete", ctx, user.ID).Return(nil).Once()

	svc := newUserService(users, hasher)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID, "Password1"))
	users.AssertExpectations(t)
}

func TestUser_DeleteAccount_WrongPassword(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), PasswordHash: "$2a$12$hash"}

	users := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}

	users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	hasher.On("Verify", "wrong", user.PasswordHash).Return(false, nil).Once()

	svc := newUserService(users, hasher)

	err := svc.DeleteAccount(ctx, user.ID, "wrong")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUser_UsernameAvailable(t *testing.T) {
	ctx := context.Background()

	users := &mocks.UserStore{}
	users.On("GetByUsername", ctx, "free").Return(model.User{}, model.ErrNotFound).Once()
	users.On("GetByUsername", ctx, "taken").Return(model.User{ID: uuid.New()}, nil).Once()

	svc := newUserService(users, &mocks.PasswordHasher{})

	free, err := svc.UsernameAvailable(ctx, "free")
	require.NoError(t, err)
	assert.True(t, free)

	taken, err := svc.UsernameAvailable(ctx, "taken")
	require.NoError(t, err)
	assert.False(t, taken)
}
