package room

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
	"github.com/zzj2012/backend-project/internal/user"
)

type serviceMocks struct {
	rooms   *MockRoomRepository
	members *MockMemberRepository
	users   *user.MockUserRepository
}

func newServiceWithMocks(t *testing.T) (RoomService, serviceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		rooms:   NewMockRoomRepository(ctrl),
		members: NewMockMemberRepository(ctrl),
		users:   user.NewMockUserRepository(ctrl),
	}
	return NewRoomService(m.rooms, m.members, m.users), m
}

func TestRoomService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success joins the owner", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(5)).Return(&dbmysql.User{ID: 5, Username: "alice"}, nil)
		m.rooms.EXPECT().CreateWithOwner(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, room *dbmysql.Room) error {
				room.ID = 10
				return nil
			})

		room, err := svc.Create(ctx, "my room", 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), room.ID)
		require.NotNil(t, room.OwnerID)
		assert.Equal(t, uint64(5), *room.OwnerID)
		assert.False(t, room.IsMain)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _ := newServiceWithMocks(t)
		_, err := svc.Create(ctx, "  ", 5)
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})

	t.Run("unknown owner", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(99)).Return(nil, gorm.ErrRecordNotFound)
		_, err := svc.Create(ctx, "my room", 99)
		require.Error(t, err)
		assert.Equal(t, common.KindNotFound, common.KindOf(err))
	})
}

func TestRoomService_Rename(t *testing.T) {
	ctx := context.Background()
	ownerID := uint64(5)

	t.Run("success", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10, Name: "old", OwnerID: &ownerID}, nil)
		m.rooms.EXPECT().Rename(ctx, uint64(10), "new").Return(nil)

		room, err := svc.Rename(ctx, 10, 5, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", room.Name)
	})

	t.Run("main room refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.Room{ID: 1, Name: "General", IsMain: true}, nil)
		_, err := svc.Rename(ctx, 1, 5, "new")
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("non-owner refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10, Name: "old", OwnerID: &ownerID}, nil)
		_, err := svc.Rename(ctx, 10, 6, "new")
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(404)).Return(nil, gorm.ErrRecordNotFound)
		_, err := svc.Rename(ctx, 404, 5, "new")
		require.Error(t, err)
		assert.Equal(t, common.KindNotFound, common.KindOf(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uint64(5)

	t.Run("success", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10, OwnerID: &ownerID}, nil)
		m.rooms.EXPECT().DeleteCascade(ctx, uint64(10)).Return(nil)
		require.NoError(t, svc.Delete(ctx, 10, 5))
	})

	t.Run("main room refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.Room{ID: 1, IsMain: true}, nil)
		err := svc.Delete(ctx, 1, 5)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("non-owner refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10, OwnerID: &ownerID}, nil)
		err := svc.Delete(ctx, 10, 6)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestRoomService_RoomsWithStatus(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks(t)

	readAt := common.Now().Add(-time.Hour)
	newer := common.Now()
	older := common.Now().Add(-2 * time.Hour)

	m.members.EXPECT().ListByUser(ctx, uint64(5)).Return([]*dbmysql.RoomMember{
		{UserID: 5, RoomID: 1, LastReadAt: &readAt},
		{UserID: 5, RoomID: 2, IsPinned: true, LastReadAt: &readAt},
		{UserID: 5, RoomID: 3},
	}, nil)
	m.rooms.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.Room{ID: 1, Name: "General", IsMain: true}, nil)
	m.rooms.EXPECT().ByID(ctx, uint64(2)).Return(&dbmysql.Room{ID: 2, Name: "pinned"}, nil)
	m.rooms.EXPECT().ByID(ctx, uint64(3)).Return(&dbmysql.Room{ID: 3, Name: "quiet"}, nil)
	m.rooms.EXPECT().LatestMessageAt(ctx, uint64(1)).Return(&newer, nil)
	m.rooms.EXPECT().LatestMessageAt(ctx, uint64(2)).Return(&older, nil)
	m.rooms.EXPECT().LatestMessageAt(ctx, uint64(3)).Return(nil, nil)

	out, err := svc.RoomsWithStatus(ctx, 5)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// pinned room sorts first
	assert.Equal(t, uint64(2), out[0].ID)
	assert.True(t, out[0].IsPinned)
	assert.False(t, out[0].HasUnread) // read after last message

	assert.Equal(t, uint64(1), out[1].ID)
	assert.True(t, out[1].HasUnread) // message newer than last read

	assert.Equal(t, uint64(3), out[2].ID)
	assert.False(t, out[2].HasUnread) // no messages at all
}

func TestRoomService_TogglePin(t *testing.T) {
	ctx := context.Background()

	t.Run("pins and unpins", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		member := &dbmysql.RoomMember{UserID: 5, RoomID: 10}
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil).Times(2)
		m.members.EXPECT().Get(ctx, uint64(5), uint64(10)).Return(member, nil).Times(2)
		m.members.EXPECT().Update(ctx, member).Return(nil).Times(2)

		pinned, err := svc.TogglePin(ctx, 5, 10)
		require.NoError(t, err)
		assert.True(t, pinned)

		pinned, err = svc.TogglePin(ctx, 5, 10)
		require.NoError(t, err)
		assert.False(t, pinned)
	})

	t.Run("main room not pinnable", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.Room{ID: 1, IsMain: true}, nil)
		_, err := svc.TogglePin(ctx, 5, 1)
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})

	t.Run("non-member refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		m.members.EXPECT().Get(ctx, uint64(6), uint64(10)).Return(nil, gorm.ErrRecordNotFound)
		_, err := svc.TogglePin(ctx, 6, 10)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestRoomService_AdminListRooms(t *testing.T) {
	ctx := context.Background()
	ownerID := uint64(2)

	t.Run("success", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.User{ID: 1, IsAdmin: true}, nil)
		m.rooms.EXPECT().List(ctx).Return([]*dbmysql.Room{
			{ID: 1, Name: "General", IsMain: true},
			{ID: 2, Name: "side", OwnerID: &ownerID},
		}, nil)
		m.rooms.EXPECT().MemberCount(ctx, uint64(1)).Return(int64(4), nil)
		m.rooms.EXPECT().MemberCount(ctx, uint64(2)).Return(int64(2), nil)
		m.users.EXPECT().ByID(ctx, uint64(2)).Return(&dbmysql.User{ID: 2, Username: "bob"}, nil)

		out, err := svc.AdminListRooms(ctx, 1)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Empty(t, out[0].OwnerName) // main room has no owner
		assert.Equal(t, "bob", out[1].OwnerName)
		assert.Equal(t, int64(2), out[1].MemberCount)
	})

	t.Run("non-admin refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(7)).Return(&dbmysql.User{ID: 7}, nil)
		_, err := svc.AdminListRooms(ctx, 7)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestRoomService_AdminDeleteRoom(t *testing.T) {
	ctx := context.Background()
	admin := &dbmysql.User{ID: 1, IsAdmin: true}

	t.Run("success", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(1)).Return(admin, nil)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		m.rooms.EXPECT().DeleteCascade(ctx, uint64(10)).Return(nil)
		require.NoError(t, svc.AdminDeleteRoom(ctx, 1, 10))
	})

	t.Run("main room refused even for admins", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(1)).Return(admin, nil)
		m.rooms.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.Room{ID: 1, IsMain: true}, nil)
		err := svc.AdminDeleteRoom(ctx, 1, 1)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}
