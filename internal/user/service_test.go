package user

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
)

func TestUserService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		setup    func()
		wantErr  bool
		wantKind common.ErrorKind
	}{
		{
			name:     "success",
			username: "alice",
			password: "secret123",
			setup: func() {
				mockRepo.EXPECT().Exists(ctx, "alice").Return(false, nil)
				mockRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, u *dbmysql.User) error {
						u.ID = 1
						return nil
					})
			},
		},
		{
			name:     "duplicate username",
			username: "bob",
			password: "secret123",
			setup: func() {
				mockRepo.EXPECT().Exists(ctx, "bob").Return(true, nil)
			},
			wantErr:  true,
			wantKind: common.KindConflict,
		},
		{
			name:     "username too short",
			username: "ab",
			password: "secret123",
			setup:    func() {},
			wantErr:  true,
			wantKind: common.KindInvalidArgument,
		},
		{
			name:     "username with illegal characters",
			username: "bad name!",
			password: "secret123",
			setup:    func() {},
			wantErr:  true,
			wantKind: common.KindInvalidArgument,
		},
		{
			name:     "password too short",
			username: "carol",
			password: "short",
			setup:    func() {},
			wantErr:  true,
			wantKind: common.KindInvalidArgument,
		},
		{
			name:     "repo failure on create",
			username: "dave",
			password: "secret123",
			setup: func() {
				mockRepo.EXPECT().Exists(ctx, "dave").Return(false, nil)
				mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db down"))
			},
			wantErr:  true,
			wantKind: common.KindInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			user, token, err := svc.Register(ctx, tc.username, tc.password)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, common.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotEmpty(t, token)
			assert.Equal(t, tc.username, user.Username)
			assert.NotEqual(t, tc.password, user.PasswordHash)
			assert.False(t, user.CreatedAt.IsZero())
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)
	ctx := context.Background()

	hash, err := common.HashPassword("secret123")
	require.NoError(t, err)
	stored := &dbmysql.User{ID: 7, Username: "alice", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().ByUsername(ctx, "alice").Return(stored, nil)
		user, token, err := svc.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo.EXPECT().ByUsername(ctx, "alice").Return(stored, nil)
		_, _, err := svc.Login(ctx, "alice", "wrongpass")
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo.EXPECT().ByUsername(ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)
		_, _, err := svc.Login(ctx, "ghost", "secret123")
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "", "")
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)
	ctx := context.Background()

	hash, err := common.HashPassword("secret123")
	require.NoError(t, err)
	stored := &dbmysql.User{ID: 3, Username: "alice", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().ByID(ctx, uint64(3)).Return(stored, nil)
		mockRepo.EXPECT().DeleteAccountData(ctx, uint64(3)).Return(nil)
		require.NoError(t, svc.DeleteAccount(ctx, 3, "secret123"))
	})

	t.Run("wrong password leaves account untouched", func(t *testing.T) {
		mockRepo.EXPECT().ByID(ctx, uint64(3)).Return(stored, nil)
		err := svc.DeleteAccount(ctx, 3, "nope")
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo.EXPECT().ByID(ctx, uint64(99)).Return(nil, gorm.ErrRecordNotFound)
		err := svc.DeleteAccount(ctx, 99, "secret123")
		require.Error(t, err)
		assert.Equal(t, common.KindNotFound, common.KindOf(err))
	})
}

func TestUserService_AdminDeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)
	ctx := context.Background()

	admin := &dbmysql.User{ID: 1, Username: "admin", IsAdmin: true}
	mortal := &dbmysql.User{ID: 2, Username: "bob"}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().ByID(ctx, uint64(1)).Return(admin, nil)
		mockRepo.EXPECT().ByID(ctx, uint64(2)).Return(mortal, nil)
		mockRepo.EXPECT().DeleteAccountData(ctx, uint64(2)).Return(nil)
		require.NoError(t, svc.AdminDeleteUser(ctx, 1, 2))
	})

	t.Run("non-admin caller", func(t *testing.T) {
		mockRepo.EXPECT().ByID(ctx, uint64(2)).Return(mortal, nil)
		err := svc.AdminDeleteUser(ctx, 2, 1)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("deleted admin account loses privileges", func(t *testing.T) {
		mockRepo.EXPECT().ByID(ctx, uint64(5)).Return(nil, gorm.ErrRecordNotFound)
		err := svc.AdminDeleteUser(ctx, 5, 2)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("cannot delete another admin", func(t *testing.T) {
		other := &dbmysql.User{ID: 6, Username: "root2", IsAdmin: true}
		mockRepo.EXPECT().ByID(ctx, uint64(1)).Return(admin, nil)
		mockRepo.EXPECT().ByID(ctx, uint64(6)).Return(other, nil)
		err := svc.AdminDeleteUser(ctx, 1, 6)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestUserService_AdminListUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)
	ctx := context.Background()

	admin := &dbmysql.User{ID: 1, Username: "admin", IsAdmin: true}
	bob := &dbmysql.User{ID: 2, Username: "bob"}

	mockRepo.EXPECT().ByID(ctx, uint64(1)).Return(admin, nil)
	mockRepo.EXPECT().List(ctx).Return([]*dbmysql.User{admin, bob}, nil)
	mockRepo.EXPECT().RoomCount(ctx, uint64(1)).Return(int64(1), nil)
	mockRepo.EXPECT().RoomCount(ctx, uint64(2)).Return(int64(3), nil)

	out, err := svc.AdminListUsers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(3), out[1].RoomCount)
}

func TestUserService_Search_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewUserService(NewMockUserRepository(ctrl))
	users, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, users)
}
