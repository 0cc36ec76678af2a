package room

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/dbmysql"
)

type RoomRepository interface {
	// CreateWithOwner inserts the room and its owner's membership row in one
	// transaction; neither persists without the other.
	CreateWithOwner(ctx context.Context, room *dbmysql.Room) error
	ByID(ctx context.Context, roomID uint64) (*dbmysql.Room, error)
	MainRoom(ctx context.Context) (*dbmysql.Room, error)
	Rename(ctx context.Context, roomID uint64, name string) error
	// DeleteCascade removes the room's messages, members, and invitations,
	// then the room itself, in one transaction.
	DeleteCascade(ctx context.Context, roomID uint64) error
	List(ctx context.Context) ([]*dbmysql.Room, error)
	MemberCount(ctx context.Context, roomID uint64) (int64, error)
	// LatestMessageAt returns the creation time of the newest non-revoked
	// message in the room, or nil when there is none.
	LatestMessageAt(ctx context.Context, roomID uint64) (*time.Time, error)
}

type MemberRepository interface {
	Get(ctx context.Context, userID, roomID uint64) (*dbmysql.RoomMember, error)
	Create(ctx context.Context, member *dbmysql.RoomMember) error
	Delete(ctx context.Context, userID, roomID uint64) error
	Update(ctx context.Context, member *dbmysql.RoomMember) error
	ListByRoom(ctx context.Context, roomID uint64) ([]*dbmysql.RoomMember, error)
	ListByUser(ctx context.Context, userID uint64) ([]*dbmysql.RoomMember, error)
	MemberIDs(ctx context.Context, roomID uint64) ([]uint64, error)
	IsMember(ctx context.Context, userID, roomID uint64) (bool, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) CreateWithOwner(ctx context.Context, room *dbmysql.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		member := &dbmysql.RoomMember{
			UserID:   *room.OwnerID,
			RoomID:   room.ID,
			JoinedAt: room.CreatedAt,
		}
		return tx.Create(member).Error
	})
}

func (r *roomRepository) ByID(ctx context.Context, roomID uint64) (*dbmysql.Room, error) {
	var room dbmysql.Room
	err := r.db.WithContext(ctx).First(&room, roomID).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) MainRoom(ctx context.Context) (*dbmysql.Room, error) {
	var room dbmysql.Room
	err := r.db.WithContext(ctx).Where("is_main = ?", true).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Rename(ctx context.Context, roomID uint64, name string) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Room{}).Where("id = ?", roomID).Update("name", name).Error
}

func (r *roomRepository) DeleteCascade(ctx context.Context, roomID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return dbmysql.DeleteRoomRows(tx, roomID)
	})
}

func (r *roomRepository) List(ctx context.Context) ([]*dbmysql.Room, error) {
	var rooms []*dbmysql.Room
	err := r.db.WithContext(ctx).Order("id").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) MemberCount(ctx context.Context, roomID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.RoomMember{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *roomRepository) LatestMessageAt(ctx context.Context, roomID uint64) (*time.Time, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND revoked = ?", roomID, false).
		Order("created_at DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg.CreatedAt, nil
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Get(ctx context.Context, userID, roomID uint64) (*dbmysql.RoomMember, error) {
	var member dbmysql.RoomMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Create(ctx context.Context, member *dbmysql.RoomMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) Delete(ctx context.Context, userID, roomID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Delete(&dbmysql.RoomMember{}).Error
}

func (r *memberRepository) Update(ctx context.Context, member *dbmysql.RoomMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepository) ListByRoom(ctx context.Context, roomID uint64) ([]*dbmysql.RoomMember, error) {
	var members []*dbmysql.RoomMember
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Find(&members).Error
	return members, err
}

func (r *memberRepository) ListByUser(ctx context.Context, userID uint64) ([]*dbmysql.RoomMember, error) {
	var members []*dbmysql.RoomMember
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error
	return members, err
}

func (r *memberRepository) MemberIDs(ctx context.Context, roomID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&dbmysql.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *memberRepository) IsMember(ctx context.Context, userID, roomID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.RoomMember{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Count(&count).Error
	return count > 0, err
}
