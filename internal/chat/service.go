package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
	"github.com/zzj2012/backend-project/internal/room"
	"github.com/zzj2012/backend-project/internal/user"
)

const (
	roomMessageLimit  = 50
	mainMessageLimit  = 100
	adminMessageLimit = 200

	// Authors may take back a message for this long after posting it.
	revokeWindow = 2 * time.Minute
)

type ChatService interface {
	Post(ctx context.Context, authorID, roomID uint64, msgType common.MessageType, content, filePath, fileName string) (*dbmysql.Message, error)
	Revoke(ctx context.Context, messageID, actingUserID uint64) error
	List(ctx context.Context, roomID, callerID uint64) ([]*MessageView, error)
	AdminList(ctx context.Context, adminID, roomID uint64) ([]*MessageView, error)
	Get(ctx context.Context, messageID uint64) (*dbmysql.Message, error)
	MarkRead(ctx context.Context, userID, roomID uint64) error
	AdminClearHistory(ctx context.Context, adminID, roomID uint64) (int64, error)
	AdminBroadcastWarning(ctx context.Context, adminID, roomID uint64, text string) (*dbmysql.Message, error)
}

// MessageView is one message with the author's username resolved.
type MessageView struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	FilePath    string    `json:"file_path,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type chatService struct {
	messages MessageRepository
	rooms    room.RoomRepository
	members  room.MemberRepository
	users    user.UserRepository
	files    common.FileStore
	now      func() time.Time
}

func NewChatService(messages MessageRepository, rooms room.RoomRepository, members room.MemberRepository, users user.UserRepository, files common.FileStore) ChatService {
	return &chatService{
		messages: messages,
		rooms:    rooms,
		members:  members,
		users:    users,
		files:    files,
		now:      common.Now,
	}
}

func (s *chatService) Post(ctx context.Context, authorID, roomID uint64, msgType common.MessageType, content, filePath, fileName string) (*dbmysql.Message, error) {
	if !msgType.Valid() {
		return nil, common.InvalidArgumentf("unknown message type %q", msgType)
	}
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return nil, err
	}
	isMember, err := s.members.IsMember(ctx, authorID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, common.Forbiddenf("only room members can post")
	}

	if msgType.NeedsFile() {
		if filePath == "" {
			return nil, common.InvalidArgumentf("%s messages require a file", msgType)
		}
		ok, err := s.files.Exists(ctx, filePath)
		if err != nil {
			return nil, fmt.Errorf("check stored file: %w", err)
		}
		if !ok {
			return nil, common.InvalidArgumentf("file %q does not exist", filePath)
		}
	} else if strings.TrimSpace(content) == "" {
		return nil, common.InvalidArgumentf("message content is empty")
	}

	msg := &dbmysql.Message{
		Content:     content,
		MessageType: string(msgType),
		FilePath:    filePath,
		FileName:    fileName,
		UserID:      authorID,
		RoomID:      roomID,
		CreatedAt:   s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (s *chatService) Revoke(ctx context.Context, messageID, actingUserID uint64) error {
	msg, err := s.messages.ByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NotFoundf("message %d not found", messageID)
		}
		return fmt.Errorf("load message: %w", err)
	}
	if msg.UserID != actingUserID {
		return common.Forbiddenf("only the author can revoke a message")
	}
	if msg.Revoked {
		return common.Conflictf("message already revoked")
	}
	if s.now().Sub(msg.CreatedAt) > revokeWindow {
		return common.InvalidArgumentf("too late to revoke this message")
	}

	msg.Revoked = true
	if err := s.messages.Update(ctx, msg); err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return nil
}

func (s *chatService) List(ctx context.Context, roomID, callerID uint64) ([]*MessageView, error) {
	rm, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.members.IsMember(ctx, callerID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, common.Forbiddenf("only room members can read messages")
	}

	limit := roomMessageLimit
	if rm.IsMain {
		limit = mainMessageLimit
	}
	return s.listViews(ctx, roomID, limit)
}

func (s *chatService) AdminList(ctx context.Context, adminID, roomID uint64) ([]*MessageView, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.listViews(ctx, roomID, adminMessageLimit)
}

// listViews fetches the newest messages and returns them in chronological order.
func (s *chatService) listViews(ctx context.Context, roomID uint64, limit int) ([]*MessageView, error) {
	msgs, err := s.messages.ListRecent(ctx, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	seen := make(map[uint64]struct{}, len(msgs))
	ids := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.UserID]; !ok {
			seen[m.UserID] = struct{}{}
			ids = append(ids, m.UserID)
		}
	}
	names := make(map[uint64]string, len(ids))
	if len(ids) > 0 {
		users, err := s.users.ByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load authors: %w", err)
		}
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}

	out := make([]*MessageView, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = &MessageView{
			ID:          m.ID,
			UserID:      m.UserID,
			Username:    names[m.UserID],
			Content:     m.Content,
			MessageType: m.MessageType,
			FilePath:    m.FilePath,
			FileName:    m.FileName,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out, nil
}

// Get returns the raw message row, revoked or not.
func (s *chatService) Get(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	msg, err := s.messages.ByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("message %d not found", messageID)
		}
		return nil, fmt.Errorf("load message: %w", err)
	}
	return msg, nil
}

func (s *chatService) MarkRead(ctx context.Context, userID, roomID uint64) error {
	member, err := s.members.Get(ctx, userID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Forbiddenf("user %d is not a member of room %d", userID, roomID)
		}
		return fmt.Errorf("load membership: %w", err)
	}

	now := s.now()
	member.LastReadAt = &now
	if err := s.members.Update(ctx, member); err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

func (s *chatService) AdminClearHistory(ctx context.Context, adminID, roomID uint64) (int64, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return 0, err
	}
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return 0, err
	}
	count, err := s.messages.DeleteByRoom(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return count, nil
}

func (s *chatService) AdminBroadcastWarning(ctx context.Context, adminID, roomID uint64, text string) (*dbmysql.Message, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, common.InvalidArgumentf("warning text is empty")
	}

	msg := &dbmysql.Message{
		Content:     text,
		MessageType: string(common.MessageWarning),
		UserID:      adminID,
		RoomID:      roomID,
		CreatedAt:   s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create warning: %w", err)
	}
	return msg, nil
}

func (s *chatService) loadRoom(ctx context.Context, roomID uint64) (*dbmysql.Room, error) {
	rm, err := s.rooms.ByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("room %d not found", roomID)
		}
		return nil, fmt.Errorf("load room: %w", err)
	}
	return rm, nil
}

func (s *chatService) requireAdmin(ctx context.Context, adminID uint64) error {
	u, err := s.users.ByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Forbiddenf("admin privileges required")
		}
		return fmt.Errorf("load admin: %w", err)
	}
	if !u.IsAdmin {
		return common.Forbiddenf("admin privileges required")
	}
	return nil
}
