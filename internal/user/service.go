package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
)

const searchLimit = 10

type UserService interface {
	Register(ctx context.Context, username, password string) (*dbmysql.User, string, error)
	Login(ctx context.Context, username, password string) (*dbmysql.User, string, error)
	Status(ctx context.Context, userID uint64) (*dbmysql.User, error)
	Search(ctx context.Context, query string) ([]*dbmysql.User, error)
	DeleteAccount(ctx context.Context, userID uint64, password string) error
	AdminListUsers(ctx context.Context, adminID uint64) ([]*Summary, error)
	AdminDeleteUser(ctx context.Context, adminID, targetID uint64) error
}

// Summary is a user row enriched with the membership count admins see.
type Summary struct {
	User      *dbmysql.User `json:"user"`
	RoomCount int64         `json:"room_count"`
}

type userService struct {
	users UserRepository
	now   func() time.Time
}

func NewUserService(users UserRepository) UserService {
	return &userService{users: users, now: common.Now}
}

func (s *userService) Register(ctx context.Context, username, password string) (*dbmysql.User, string, error) {
	username = strings.TrimSpace(username)
	if err := common.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", common.Conflictf("username %q already exists", username)
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		Username:     username,
		PasswordHash: hashed,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := common.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*dbmysql.User, string, error) {
	if username == "" || password == "" {
		return nil, "", common.InvalidArgumentf("username and password required")
	}

	user, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", common.Forbiddenf("invalid username or password")
	}
	if err != nil {
		return nil, "", err
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.Forbiddenf("invalid username or password")
	}

	token, err := common.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) Status(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFoundf("user %d not found", userID)
	}
	return user, err
}

func (s *userService) Search(ctx context.Context, query string) ([]*dbmysql.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.users.Search(ctx, query, searchLimit)
}

func (s *userService) DeleteAccount(ctx context.Context, userID uint64, password string) error {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NotFoundf("user %d not found", userID)
	}
	if err != nil {
		return err
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return common.Forbiddenf("wrong password")
	}

	return s.users.DeleteAccountData(ctx, userID)
}

func (s *userService) AdminListUsers(ctx context.Context, adminID uint64) ([]*Summary, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Summary, 0, len(users))
	for _, u := range users {
		count, err := s.users.RoomCount(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &Summary{User: u, RoomCount: count})
	}
	return out, nil
}

func (s *userService) AdminDeleteUser(ctx context.Context, adminID, targetID uint64) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	target, err := s.users.ByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NotFoundf("user %d not found", targetID)
	}
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return common.Forbiddenf("cannot delete an admin account")
	}

	return s.users.DeleteAccountData(ctx, targetID)
}

// requireAdmin re-checks the acting account on every call; the admin flag is
// never cached.
func (s *userService) requireAdmin(ctx context.Context, adminID uint64) error {
	admin, err := s.users.ByID(ctx, adminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Forbiddenf("admin privileges required")
	}
	if err != nil {
		return err
	}
	if !admin.IsAdmin {
		return common.Forbiddenf("admin privileges required")
	}
	return nil
}
