package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carfleet/internal/auth"
	apperrors "carfleet/internal/errors"
	"carfleet/internal/model"
)

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful creation",
			username: "newstaff",
			setupMock: func(m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "newstaff").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "duplicate active username",
			username: "taken",
			setupMock: func(m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "taken").Return(&model.User{Username: "taken"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			svc := NewUserService(users)
			user, err := svc.Create(context.Background(), tt.username, "secret123", false)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.username, user.Username)
				assert.NotEqual(t, "secret123", user.PasswordHash)
				assert.True(t, auth.CheckPassword(user.PasswordHash, "secret123"))
			}
			users.AssertExpectations(t)
		})
	}
}

func TestUserService_Update_RenameToTakenUsername(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindActiveByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Username: "old"}, nil)
	users.On("FindActiveByUsernameExcluding", mock.Anything, "taken", uint(2)).
		Return(&model.User{ID: 9, Username: "taken"}, nil)

	svc := NewUserService(users)
	err := svc.Update(context.Background(), 2, "taken", "", false)

	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_KeepsHashWithoutNewPassword(t *testing.T) {
	hash, err := auth.HashPassword("original")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("FindActiveByID", mock.Anything, uint(2)).Return(&model.User{
		ID: 2, Username: "staff", PasswordHash: hash,
	}, nil)

	var updated *model.User
	users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*model.User) }).Return(nil)

	svc := NewUserService(users)
	require.NoError(t, svc.Update(context.Background(), 2, "staff", "", true))

	require.NotNil(t, updated)
	assert.Equal(t, hash, updated.PasswordHash)
	assert.True(t, updated.IsAdmin)
}

func TestUserService_SoftDelete(t *testing.T) {
	t.Run("rejects self deletion", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users)

		err := svc.SoftDelete(context.Background(), 5, 5)

		assert.ErrorIs(t, err, apperrors.ErrSelfDeletion)
		users.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})

	t.Run("deletes another user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("SoftDelete", mock.Anything, uint(5)).Return(nil)
		svc := NewUserService(users)

		require.NoError(t, svc.SoftDelete(context.Background(), 5, 1))
		users.AssertExpectations(t)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("skips when an admin exists", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("CountActiveAdmins", mock.Anything).Return(int64(1), nil)
		svc := NewUserService(users)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin123"))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("provisions the first admin", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("CountActiveAdmins", mock.Anything).Return(int64(0), nil)
		users.On("FindActiveByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)

		var created *model.User
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).Return(nil)

		svc := NewUserService(users)
		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin123"))

		require.NotNil(t, created)
		assert.True(t, created.IsAdmin)
		assert.Equal(t, "admin", created.Username)
	})
}
