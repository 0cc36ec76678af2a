package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
	"github.com/zzj2012/backend-project/internal/room"
	"github.com/zzj2012/backend-project/internal/user"
)

type MembershipService interface {
	Invite(ctx context.Context, senderID uint64, receiverUsername string, roomID uint64) (*dbmysql.Invitation, error)
	Respond(ctx context.Context, invitationID, actingUserID uint64, action string) error
	ListInvitations(ctx context.Context, userID uint64) ([]*InvitationView, error)
	Kick(ctx context.Context, roomID, kickerID, targetID uint64) error
	AvailableInvitees(ctx context.Context, roomID, callerID uint64) ([]*dbmysql.User, error)
	RoomMembers(ctx context.Context, roomID, callerID uint64) ([]*MemberView, error)
	AdminForceJoin(ctx context.Context, adminID, roomID uint64) error
}

// InvitationView is a pending invitation with sender and room names resolved.
type InvitationView struct {
	ID         uint64    `json:"id"`
	SenderName string    `json:"sender_name"`
	RoomID     uint64    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// MemberView is one room member with the username resolved.
type MemberView struct {
	UserID   uint64    `json:"user_id"`
	Username string    `json:"username"`
	IsOwner  bool      `json:"is_owner"`
	JoinedAt time.Time `json:"joined_at"`
}

type membershipService struct {
	invitations InvitationRepository
	rooms       room.RoomRepository
	members     room.MemberRepository
	users       user.UserRepository
	now         func() time.Time
}

func NewMembershipService(invitations InvitationRepository, rooms room.RoomRepository, members room.MemberRepository, users user.UserRepository) MembershipService {
	return &membershipService{
		invitations: invitations,
		rooms:       rooms,
		members:     members,
		users:       users,
		now:         common.Now,
	}
}

func (s *membershipService) Invite(ctx context.Context, senderID uint64, receiverUsername string, roomID uint64) (*dbmysql.Invitation, error) {
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return nil, err
	}

	isMember, err := s.members.IsMember(ctx, senderID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check sender membership: %w", err)
	}
	if !isMember {
		return nil, common.Forbiddenf("only room members can invite")
	}

	receiver, err := s.users.ByUsername(ctx, receiverUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("user %q not found", receiverUsername)
		}
		return nil, fmt.Errorf("load receiver: %w", err)
	}

	alreadyIn, err := s.members.IsMember(ctx, receiver.ID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check receiver membership: %w", err)
	}
	if alreadyIn {
		return nil, common.Conflictf("%q is already a member of this room", receiverUsername)
	}

	dup, err := s.invitations.HasPending(ctx, senderID, receiver.ID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check pending invitation: %w", err)
	}
	if dup {
		return nil, common.Conflictf("an invitation to %q is already pending", receiverUsername)
	}

	inv := &dbmysql.Invitation{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		RoomID:     roomID,
		Status:     string(common.InvitationPending),
		CreatedAt:  s.now(),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

func (s *membershipService) Respond(ctx context.Context, invitationID, actingUserID uint64, action string) error {
	if action != common.InvitationActionAccept && action != common.InvitationActionReject {
		return common.InvalidArgumentf("action must be %q or %q", common.InvitationActionAccept, common.InvitationActionReject)
	}

	inv, err := s.invitations.ByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NotFoundf("invitation %d not found", invitationID)
		}
		return fmt.Errorf("load invitation: %w", err)
	}
	if inv.ReceiverID != actingUserID {
		return common.Forbiddenf("only the invited user can respond")
	}
	if inv.Status != string(common.InvitationPending) {
		return common.Conflictf("invitation already %s", inv.Status)
	}

	if action == common.InvitationActionReject {
		inv.Status = string(common.InvitationRejected)
		if err := s.invitations.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		return nil
	}

	// Membership may have appeared since the invitation was sent. The
	// invitation stays pending on conflict so the receiver can still reject it.
	alreadyIn, err := s.members.IsMember(ctx, inv.ReceiverID, inv.RoomID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if alreadyIn {
		return common.Conflictf("already a member of this room")
	}

	member := &dbmysql.RoomMember{
		UserID:   inv.ReceiverID,
		RoomID:   inv.RoomID,
		JoinedAt: s.now(),
	}
	if err := s.invitations.Accept(ctx, inv, member); err != nil {
		return fmt.Errorf("accept invitation: %w", err)
	}
	return nil
}

func (s *membershipService) ListInvitations(ctx context.Context, userID uint64) ([]*InvitationView, error) {
	invs, err := s.invitations.PendingByReceiver(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	out := make([]*InvitationView, 0, len(invs))
	for _, inv := range invs {
		view := &InvitationView{
			ID:        inv.ID,
			RoomID:    inv.RoomID,
			CreatedAt: inv.CreatedAt,
		}
		if sender, err := s.users.ByID(ctx, inv.SenderID); err == nil {
			view.SenderName = sender.Username
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load sender %d: %w", inv.SenderID, err)
		}
		if rm, err := s.rooms.ByID(ctx, inv.RoomID); err == nil {
			view.RoomName = rm.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load room %d: %w", inv.RoomID, err)
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *membershipService) Kick(ctx context.Context, roomID, kickerID, targetID uint64) error {
	rm, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !rm.OwnedBy(kickerID) {
		return common.Forbiddenf("only the room owner can kick members")
	}
	if kickerID == targetID {
		return common.InvalidArgumentf("the owner cannot kick themselves")
	}

	if _, err := s.members.Get(ctx, targetID, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NotFoundf("user %d is not a member of room %d", targetID, roomID)
		}
		return fmt.Errorf("load membership: %w", err)
	}
	if err := s.members.Delete(ctx, targetID, roomID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *membershipService) AvailableInvitees(ctx context.Context, roomID, callerID uint64) ([]*dbmysql.User, error) {
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return nil, err
	}
	isMember, err := s.members.IsMember(ctx, callerID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, common.Forbiddenf("only room members can list invitees")
	}

	memberIDs, err := s.members.MemberIDs(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list member ids: %w", err)
	}
	pendingIDs, err := s.invitations.PendingReceiverIDs(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list pending receivers: %w", err)
	}

	excluded := make(map[uint64]struct{}, len(memberIDs)+len(pendingIDs))
	for _, id := range memberIDs {
		excluded[id] = struct{}{}
	}
	for _, id := range pendingIDs {
		excluded[id] = struct{}{}
	}

	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*dbmysql.User, 0, len(all))
	for _, u := range all {
		if _, skip := excluded[u.ID]; !skip {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *membershipService) RoomMembers(ctx context.Context, roomID, callerID uint64) ([]*MemberView, error) {
	rm, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.members.IsMember(ctx, callerID, roomID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, common.Forbiddenf("only room members can list members")
	}

	members, err := s.members.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load usernames: %w", err)
	}
	names := make(map[uint64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	out := make([]*MemberView, 0, len(members))
	for _, m := range members {
		out = append(out, &MemberView{
			UserID:   m.UserID,
			Username: names[m.UserID],
			IsOwner:  rm.OwnedBy(m.UserID),
			JoinedAt: m.JoinedAt,
		})
	}
	return out, nil
}

func (s *membershipService) AdminForceJoin(ctx context.Context, adminID, roomID uint64) error {
	admin, err := s.users.ByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Forbiddenf("admin privileges required")
		}
		return fmt.Errorf("load admin: %w", err)
	}
	if !admin.IsAdmin {
		return common.Forbiddenf("admin privileges required")
	}
	if _, err := s.loadRoom(ctx, roomID); err != nil {
		return err
	}

	// already a member is a no-op
	isMember, err := s.members.IsMember(ctx, adminID, roomID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if isMember {
		return nil
	}

	member := &dbmysql.RoomMember{
		UserID:   adminID,
		RoomID:   roomID,
		JoinedAt: s.now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	return nil
}

func (s *membershipService) loadRoom(ctx context.Context, roomID uint64) (*dbmysql.Room, error) {
	rm, err := s.rooms.ByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("room %d not found", roomID)
		}
		return nil, fmt.Errorf("load room: %w", err)
	}
	return rm, nil
}
