package chat

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
	"github.com/zzj2012/backend-project/internal/room"
	"github.com/zzj2012/backend-project/internal/user"
)

type serviceMocks struct {
	messages *MockMessageRepository
	rooms    *room.MockRoomRepository
	members  *room.MockMemberRepository
	users    *user.MockUserRepository
	files    *common.MockFileStore
}

func newServiceWithMocks(t *testing.T) (*chatService, serviceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		messages: NewMockMessageRepository(ctrl),
		rooms:    room.NewMockRoomRepository(ctrl),
		members:  room.NewMockMemberRepository(ctrl),
		users:    user.NewMockUserRepository(ctrl),
		files:    common.NewMockFileStore(ctrl),
	}
	svc := NewChatService(m.messages, m.rooms, m.members, m.users, m.files).(*chatService)
	return svc, m
}

func TestChatService_Post(t *testing.T) {
	ctx := context.Background()
	sideRoom := &dbmysql.Room{ID: 10, Name: "side"}

	t.Run("text message", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(sideRoom, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(10)).Return(true, nil)
		m.messages.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, msg *dbmysql.Message) error {
				msg.ID = 42
				return nil
			})

		msg, err := svc.Post(ctx, 1, 10, common.MessageText, "hello", "", "")
		require.NoError(t, err)
		assert.Equal(t, uint64(42), msg.ID)
		assert.False(t, msg.Revoked)
	})

	t.Run("non-member refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(sideRoom, nil)
		m.members.EXPECT().IsMember(ctx, uint64(9), uint64(10)).Return(false, nil)
		_, err := svc.Post(ctx, 9, 10, common.MessageText, "hello", "", "")
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("unknown type", func(t *testing.T) {
		svc, _ := newServiceWithMocks(t)
		_, err := svc.Post(ctx, 1, 10, "video", "x", "", "")
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})

	t.Run("empty text content", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(sideRoom, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(10)).Return(true, nil)
		_, err := svc.Post(ctx, 1, 10, common.MessageText, "   ", "", "")
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})

	t.Run("file message without a file", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(sideRoom, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(10)).Return(true, nil)
		_, err := svc.Post(ctx, 1, 10, common.MessageFile, "", "", "")
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})

	t.Run("file message with a dangling reference", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(sideRoom, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(10)).Return(true, nil)
		m.files.EXPECT().Exists(ctx, "deadbeef").Return(false, nil)
		_, err := svc.Post(ctx, 1, 10, common.MessageFile, "", "deadbeef", "doc.pdf")
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})

	t.Run("file message with a stored file", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(sideRoom, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(10)).Return(true, nil)
		m.files.EXPECT().Exists(ctx, "deadbeef").Return(true, nil)
		m.messages.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		msg, err := svc.Post(ctx, 1, 10, common.MessageImage, "", "deadbeef", "cat.png")
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", msg.FilePath)
		assert.Equal(t, "cat.png", msg.FileName)
	})
}

func TestChatService_RevokeWindow(t *testing.T) {
	ctx := context.Background()
	postedAt := common.Now()

	tests := []struct {
		name     string
		elapsed  time.Duration
		wantErr  bool
		wantKind common.ErrorKind
	}{
		{name: "well inside the window", elapsed: 30 * time.Second},
		{name: "just inside the window", elapsed: 119 * time.Second},
		{name: "exactly at the boundary", elapsed: 120 * time.Second},
		{name: "just past the window", elapsed: 121 * time.Second, wantErr: true, wantKind: common.KindInvalidArgument},
		{name: "long past the window", elapsed: time.Hour, wantErr: true, wantKind: common.KindInvalidArgument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newServiceWithMocks(t)
			svc.now = func() time.Time { return postedAt.Add(tc.elapsed) }

			msg := &dbmysql.Message{ID: 5, UserID: 1, RoomID: 10, CreatedAt: postedAt}
			m.messages.EXPECT().ByID(ctx, uint64(5)).Return(msg, nil)
			if !tc.wantErr {
				m.messages.EXPECT().Update(ctx, msg).Return(nil)
			}

			err := svc.Revoke(ctx, 5, 1)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, common.KindOf(err))
				assert.False(t, msg.Revoked)
				return
			}
			require.NoError(t, err)
			assert.True(t, msg.Revoked)
		})
	}
}

func TestChatService_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("only the author may revoke", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.messages.EXPECT().ByID(ctx, uint64(5)).Return(&dbmysql.Message{ID: 5, UserID: 1, CreatedAt: common.Now()}, nil)
		err := svc.Revoke(ctx, 5, 2)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})

	t.Run("already revoked", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.messages.EXPECT().ByID(ctx, uint64(5)).Return(&dbmysql.Message{ID: 5, UserID: 1, Revoked: true, CreatedAt: common.Now()}, nil)
		err := svc.Revoke(ctx, 5, 1)
		require.Error(t, err)
		assert.Equal(t, common.KindConflict, common.KindOf(err))
	})

	t.Run("unknown message", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.messages.EXPECT().ByID(ctx, uint64(404)).Return(nil, gorm.ErrRecordNotFound)
		err := svc.Revoke(ctx, 404, 1)
		require.Error(t, err)
		assert.Equal(t, common.KindNotFound, common.KindOf(err))
	})
}

func TestChatService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("side room fetches 50 and flips to chronological order", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		now := common.Now()
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(10)).Return(true, nil)
		m.messages.EXPECT().ListRecent(ctx, uint64(10), 50).Return([]*dbmysql.Message{
			{ID: 3, UserID: 2, Content: "newest", MessageType: "text", CreatedAt: now},
			{ID: 2, UserID: 1, Content: "middle", MessageType: "text", CreatedAt: now.Add(-time.Minute)},
			{ID: 1, UserID: 1, Content: "oldest", MessageType: "text", CreatedAt: now.Add(-2 * time.Minute)},
		}, nil)
		m.users.EXPECT().ByIDs(ctx, []uint64{2, 1}).Return([]*dbmysql.User{
			{ID: 1, Username: "alice"},
			{ID: 2, Username: "bob"},
		}, nil)

		out, err := svc.List(ctx, 10, 1)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, "oldest", out[0].Content)
		assert.Equal(t, "newest", out[2].Content)
		assert.Equal(t, "bob", out[2].Username)
	})

	t.Run("main room fetches 100", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.Room{ID: 1, IsMain: true}, nil)
		m.members.EXPECT().IsMember(ctx, uint64(1), uint64(1)).Return(true, nil)
		m.messages.EXPECT().ListRecent(ctx, uint64(1), 100).Return(nil, nil)

		out, err := svc.List(ctx, 1, 1)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("non-member refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		m.members.EXPECT().IsMember(ctx, uint64(9), uint64(10)).Return(false, nil)
		_, err := svc.List(ctx, 10, 9)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestChatService_AdminList(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches 200 without a membership check", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.User{ID: 1, IsAdmin: true}, nil)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		m.messages.EXPECT().ListRecent(ctx, uint64(10), 200).Return(nil, nil)

		_, err := svc.AdminList(ctx, 1, 10)
		require.NoError(t, err)
	})

	t.Run("non-admin refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(5)).Return(&dbmysql.User{ID: 5}, nil)
		_, err := svc.AdminList(ctx, 5, 10)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestChatService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the membership row", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		readTime := common.Now()
		svc.now = func() time.Time { return readTime }

		member := &dbmysql.RoomMember{UserID: 1, RoomID: 10}
		m.members.EXPECT().Get(ctx, uint64(1), uint64(10)).Return(member, nil)
		m.members.EXPECT().Update(ctx, member).Return(nil)

		require.NoError(t, svc.MarkRead(ctx, 1, 10))
		require.NotNil(t, member.LastReadAt)
		assert.Equal(t, readTime, *member.LastReadAt)
	})

	t.Run("non-member refused", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.members.EXPECT().Get(ctx, uint64(9), uint64(10)).Return(nil, gorm.ErrRecordNotFound)
		err := svc.MarkRead(ctx, 9, 10)
		require.Error(t, err)
		assert.Equal(t, common.KindForbidden, common.KindOf(err))
	})
}

func TestChatService_AdminClearHistory(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks(t)

	m.users.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.User{ID: 1, IsAdmin: true}, nil)
	m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
	m.messages.EXPECT().DeleteByRoom(ctx, uint64(10)).Return(int64(7), nil)

	count, err := svc.AdminClearHistory(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestChatService_AdminBroadcastWarning(t *testing.T) {
	ctx := context.Background()

	t.Run("posts a warning message", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.User{ID: 1, IsAdmin: true}, nil)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		m.messages.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		msg, err := svc.AdminBroadcastWarning(ctx, 1, 10, "behave")
		require.NoError(t, err)
		assert.Equal(t, string(common.MessageWarning), msg.MessageType)
		assert.Equal(t, uint64(1), msg.UserID)
	})

	t.Run("empty text", func(t *testing.T) {
		svc, m := newServiceWithMocks(t)
		m.users.EXPECT().ByID(ctx, uint64(1)).Return(&dbmysql.User{ID: 1, IsAdmin: true}, nil)
		m.rooms.EXPECT().ByID(ctx, uint64(10)).Return(&dbmysql.Room{ID: 10}, nil)
		_, err := svc.AdminBroadcastWarning(ctx, 1, 10, "  ")
		require.Error(t, err)
		assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	})
}
