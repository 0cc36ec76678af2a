package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/dbmysql"
)

type UserRepository interface {
	// Create inserts the user and, when a main room exists, the auto-join
	// membership row in the same transaction.
	Create(ctx context.Context, user *dbmysql.User) error
	ByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	ByUsername(ctx context.Context, username string) (*dbmysql.User, error)
	ByIDs(ctx context.Context, userIDs []uint64) ([]*dbmysql.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]*dbmysql.User, error)
	List(ctx context.Context) ([]*dbmysql.User, error)
	RoomCount(ctx context.Context, userID uint64) (int64, error)
	// DeleteAccountData removes the user's owned rooms (with their dependent
	// rows), memberships, messages, invitations, and finally the user row,
	// all inside one transaction.
	DeleteAccountData(ctx context.Context, userID uint64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		var main dbmysql.Room
		err := tx.Where("is_main = ?", true).First(&main).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no main room before bootstrap; nothing to join
			return nil
		}
		if err != nil {
			return err
		}
		member := &dbmysql.RoomMember{UserID: user.ID, RoomID: main.ID, JoinedAt: user.CreatedAt}
		return tx.Create(member).Error
	})
}

func (r *userRepository) ByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByIDs(ctx context.Context, userIDs []uint64) ([]*dbmysql.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

func (r *userRepository) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*dbmysql.User, error) {
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).
		Where("username LIKE ?", "%"+query+"%").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) List(ctx context.Context) ([]*dbmysql.User, error) {
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *userRepository) RoomCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.RoomMember{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *userRepository) DeleteAccountData(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []dbmysql.Room
		if err := tx.Where("owner_id = ? AND is_main = ?", userID, false).Find(&owned).Error; err != nil {
			return err
		}
		for _, room := range owned {
			if err := dbmysql.DeleteRoomRows(tx, room.ID); err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&dbmysql.RoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&dbmysql.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&dbmysql.Invitation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dbmysql.User{}, userID).Error
	})
}
