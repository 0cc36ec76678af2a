package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
	"github.com/zzj2012/backend-project/internal/user"
)

type RoomService interface {
	Create(ctx context.Context, name string, ownerID uint64) (*dbmysql.Room, error)
	Rename(ctx context.Context, roomID, actingUserID uint64, newName string) (*dbmysql.Room, error)
	Delete(ctx context.Context, roomID, actingUserID uint64) error
	RoomsWithStatus(ctx context.Context, userID uint64) ([]*RoomStatus, error)
	TogglePin(ctx context.Context, userID, roomID uint64) (bool, error)
	AdminListRooms(ctx context.Context, adminID uint64) ([]*RoomOverview, error)
	AdminDeleteRoom(ctx context.Context, adminID, roomID uint64) error
}

// RoomStatus is one entry of a user's room list.
type RoomStatus struct {
	ID         uint64     `json:"id"`
	Name       string     `json:"name"`
	IsMain     bool       `json:"is_main"`
	IsPinned   bool       `json:"is_pinned"`
	HasUnread  bool       `json:"has_unread"`
	LastReadAt *time.Time `json:"last_read_at"`
}

// RoomOverview is the admin view of a room.
type RoomOverview struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	IsMain      bool      `json:"is_main"`
	OwnerName   string    `json:"owner_name"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type roomService struct {
	rooms   RoomRepository
	members MemberRepository
	users   user.UserRepository
	now     func() time.Time
}

func NewRoomService(rooms RoomRepository, members MemberRepository, users user.UserRepository) RoomService {
	return &roomService{
		rooms:   rooms,
		members: members,
		users:   users,
		now:     common.Now,
	}
}

func (s *roomService) Create(ctx context.Context, name string, ownerID uint64) (*dbmysql.Room, error) {
	if err := common.ValidateRoomName(name); err != nil {
		return nil, err
	}
	if _, err := s.users.ByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("user %d not found", ownerID)
		}
		return nil, fmt.Errorf("load owner: %w", err)
	}

	room := &dbmysql.Room{
		Name:      name,
		OwnerID:   &ownerID,
		CreatedAt: s.now(),
	}
	if err := s.rooms.CreateWithOwner(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

func (s *roomService) Rename(ctx context.Context, roomID, actingUserID uint64, newName string) (*dbmysql.Room, error) {
	if err := common.ValidateRoomName(newName); err != nil {
		return nil, err
	}
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.IsMain {
		return nil, common.Forbiddenf("the main room cannot be renamed")
	}
	if !room.OwnedBy(actingUserID) {
		return nil, common.Forbiddenf("only the room owner can rename it")
	}

	if err := s.rooms.Rename(ctx, roomID, newName); err != nil {
		return nil, fmt.Errorf("rename room: %w", err)
	}
	room.Name = newName
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, roomID, actingUserID uint64) error {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.IsMain {
		return common.Forbiddenf("the main room cannot be deleted")
	}
	if !room.OwnedBy(actingUserID) {
		return common.Forbiddenf("only the room owner can delete it")
	}
	if err := s.rooms.DeleteCascade(ctx, roomID); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

func (s *roomService) RoomsWithStatus(ctx context.Context, userID uint64) ([]*RoomStatus, error) {
	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	out := make([]*RoomStatus, 0, len(memberships))
	for _, m := range memberships {
		room, err := s.rooms.ByID(ctx, m.RoomID)
		if err != nil {
			return nil, fmt.Errorf("load room %d: %w", m.RoomID, err)
		}
		latest, err := s.rooms.LatestMessageAt(ctx, m.RoomID)
		if err != nil {
			return nil, fmt.Errorf("latest message for room %d: %w", m.RoomID, err)
		}
		out = append(out, &RoomStatus{
			ID:         room.ID,
			Name:       room.Name,
			IsMain:     room.IsMain,
			IsPinned:   m.IsPinned,
			HasUnread:  m.UnreadSince(latest),
			LastReadAt: m.LastReadAt,
		})
	}

	// pinned rooms first, by id within each group
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *roomService) TogglePin(ctx context.Context, userID, roomID uint64) (bool, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room.IsMain {
		return false, common.InvalidArgumentf("the main room cannot be pinned")
	}

	member, err := s.members.Get(ctx, userID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, common.Forbiddenf("user %d is not a member of room %d", userID, roomID)
		}
		return false, fmt.Errorf("load membership: %w", err)
	}

	member.IsPinned = !member.IsPinned
	if err := s.members.Update(ctx, member); err != nil {
		return false, fmt.Errorf("update membership: %w", err)
	}
	return member.IsPinned, nil
}

func (s *roomService) AdminListRooms(ctx context.Context, adminID uint64) ([]*RoomOverview, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	out := make([]*RoomOverview, 0, len(rooms))
	for _, room := range rooms {
		count, err := s.rooms.MemberCount(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("member count for room %d: %w", room.ID, err)
		}
		ownerName := ""
		if room.OwnerID != nil {
			owner, err := s.users.ByID(ctx, *room.OwnerID)
			if err == nil {
				ownerName = owner.Username
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("load owner of room %d: %w", room.ID, err)
			}
		}
		out = append(out, &RoomOverview{
			ID:          room.ID,
			Name:        room.Name,
			IsMain:      room.IsMain,
			OwnerName:   ownerName,
			MemberCount: count,
			CreatedAt:   room.CreatedAt,
		})
	}
	return out, nil
}

func (s *roomService) AdminDeleteRoom(ctx context.Context, adminID, roomID uint64) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.IsMain {
		return common.Forbiddenf("the main room cannot be deleted")
	}
	if err := s.rooms.DeleteCascade(ctx, roomID); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

func (s *roomService) loadRoom(ctx context.Context, roomID uint64) (*dbmysql.Room, error) {
	room, err := s.rooms.ByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("room %d not found", roomID)
		}
		return nil, fmt.Errorf("load room: %w", err)
	}
	return room, nil
}

// requireAdmin checks privileges at call time; a deleted or demoted admin
// account fails here.
func (s *roomService) requireAdmin(ctx context.Context, adminID uint64) error {
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
