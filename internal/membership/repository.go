package membership

import (
	"context"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *dbmysql.Invitation) error
	ByID(ctx context.Context, invitationID uint64) (*dbmysql.Invitation, error)
	PendingByReceiver(ctx context.Context, receiverID uint64) ([]*dbmysql.Invitation, error)
	HasPending(ctx context.Context, senderID, receiverID, roomID uint64) (bool, error)
	PendingReceiverIDs(ctx context.Context, roomID uint64) ([]uint64, error)
	Update(ctx context.Context, inv *dbmysql.Invitation) error
	// Accept marks the invitation accepted and inserts the membership row in
	// one transaction; neither persists without the other.
	Accept(ctx context.Context, inv *dbmysql.Invitation, member *dbmysql.RoomMember) error
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *dbmysql.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invitationRepository) ByID(ctx context.Context, invitationID uint64) (*dbmysql.Invitation, error) {
	var inv dbmysql.Invitation
	err := r.db.WithContext(ctx).First(&inv, invitationID).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) PendingByReceiver(ctx context.Context, receiverID uint64) ([]*dbmysql.Invitation, error) {
	var invs []*dbmysql.Invitation
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, string(common.InvitationPending)).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

func (r *invitationRepository) HasPending(ctx context.Context, senderID, receiverID, roomID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Invitation{}).
		Where("sender_id = ? AND receiver_id = ? AND room_id = ? AND status = ?",
			senderID, receiverID, roomID, string(common.InvitationPending)).
		Count(&count).Error
	return count > 0, err
}

func (r *invitationRepository) PendingReceiverIDs(ctx context.Context, roomID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&dbmysql.Invitation{}).
		Where("room_id = ? AND status = ?", roomID, string(common.InvitationPending)).
		Pluck("receiver_id", &ids).Error
	return ids, err
}

func (r *invitationRepository) Update(ctx context.Context, inv *dbmysql.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invitationRepository) Accept(ctx context.Context, inv *dbmysql.Invitation, member *dbmysql.RoomMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv.Status = string(common.InvitationAccepted)
		if err := tx.Save(inv).Error; err != nil {
			return err
		}
		return tx.Create(member).Error
	})
}
