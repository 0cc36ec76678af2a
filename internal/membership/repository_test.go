package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // in-memory sqlite is per-connection

	require.NoError(t, dbmysql.Migrate(db))
	return db
}

func seedInvitation(t *testing.T, db *gorm.DB, senderID, receiverID, roomID uint64, createdAt time.Time) *dbmysql.Invitation {
	inv := &dbmysql.Invitation{
		SenderID:   senderID,
		ReceiverID: receiverID,
		RoomID:     roomID,
		Status:     string(common.InvitationPending),
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func TestInvitationRepository_PendingByReceiver(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	now := common.Now()
	older := seedInvitation(t, db, 1, 2, 10, now.Add(-time.Hour))
	newer := seedInvitation(t, db, 3, 2, 11, now)
	answered := seedInvitation(t, db, 1, 2, 12, now)
	answered.Status = string(common.InvitationRejected)
	require.NoError(t, db.Save(answered).Error)
	seedInvitation(t, db, 1, 9, 10, now) // other receiver

	invs, err := repo.PendingByReceiver(ctx, 2)
	require.NoError(t, err)
	require.Len(t, invs, 2)
	assert.Equal(t, newer.ID, invs[0].ID) // newest first
	assert.Equal(t, older.ID, invs[1].ID)
}

func TestInvitationRepository_HasPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	inv := seedInvitation(t, db, 1, 2, 10, common.Now())

	ok, err := repo.HasPending(ctx, 1, 2, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	inv.Status = string(common.InvitationAccepted)
	require.NoError(t, db.Save(inv).Error)

	ok, err = repo.HasPending(ctx, 1, 2, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvitationRepository_PendingReceiverIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	now := common.Now()
	seedInvitation(t, db, 1, 2, 10, now)
	seedInvitation(t, db, 1, 3, 10, now)
	seedInvitation(t, db, 1, 4, 99, now) // other room

	ids, err := repo.PendingReceiverIDs(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, ids)
}

func TestInvitationRepository_Accept(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	inv := seedInvitation(t, db, 1, 2, 10, common.Now())
	member := &dbmysql.RoomMember{UserID: 2, RoomID: 10, JoinedAt: common.Now()}

	require.NoError(t, repo.Accept(ctx, inv, member))

	var stored dbmysql.Invitation
	require.NoError(t, db.First(&stored, inv.ID).Error)
	assert.Equal(t, string(common.InvitationAccepted), stored.Status)

	var storedMember dbmysql.RoomMember
	require.NoError(t, db.Where("user_id = ? AND room_id = ?", 2, 10).First(&storedMember).Error)
}

// When the membership insert fails the invitation status change rolls back too.
func TestInvitationRepository_AcceptRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&dbmysql.RoomMember{UserID: 2, RoomID: 10, JoinedAt: common.Now()}).Error)
	inv := seedInvitation(t, db, 1, 2, 10, common.Now())

	member := &dbmysql.RoomMember{UserID: 2, RoomID: 10, JoinedAt: common.Now()}
	err := repo.Accept(ctx, inv, member)
	require.Error(t, err) // composite key already taken

	var stored dbmysql.Invitation
	require.NoError(t, db.First(&stored, inv.ID).Error)
	assert.Equal(t, string(common.InvitationPending), stored.Status)
}
