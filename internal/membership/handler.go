package membership

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
)

type Handler struct {
	membershipService MembershipService
}

func NewHandler(membershipService MembershipService) *Handler {
	return &Handler{membershipService: membershipService}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/send_invitation", h.Invite).Methods("POST")
	api.HandleFunc("/respond_invitation", h.Respond).Methods("POST")
	api.HandleFunc("/invitations", h.ListInvitations).Methods("GET")
	api.HandleFunc("/kick_member", h.Kick).Methods("POST")
	api.HandleFunc("/available_invitees", h.AvailableInvitees).Methods("GET")
	api.HandleFunc("/room_members", h.RoomMembers).Methods("GET")
	api.HandleFunc("/admin/join_room", h.AdminForceJoin).Methods("POST")
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID         uint64 `json:"sender_id"`
		ReceiverUsername string `json:"receiver_username"`
		RoomID           uint64 `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SenderID == 0 || req.RoomID == 0 || req.ReceiverUsername == "" {
		common.WriteError(w, common.InvalidArgumentf("sender_id, receiver_username and room_id required"))
		return
	}

	inv, err := h.membershipService.Invite(r.Context(), req.SenderID, req.ReceiverUsername, req.RoomID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"invitation_id": inv.ID,
	})
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvitationID uint64 `json:"invitation_id"`
		UserID       uint64 `json:"user_id"`
		Action       string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InvitationID == 0 || req.UserID == 0 {
		common.WriteError(w, common.InvalidArgumentf("invitation_id, user_id and action required"))
		return
	}

	if err := h.membershipService.Respond(r.Context(), req.InvitationID, req.UserID, req.Action); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, err := common.ParseID(r.URL.Query().Get("user_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	invs, err := h.membershipService.ListInvitations(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"invitations": invs})
}

func (h *Handler) Kick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID   uint64 `json:"room_id"`
		KickerID uint64 `json:"kicker_id"`
		TargetID uint64 `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == 0 || req.KickerID == 0 || req.TargetID == 0 {
		common.WriteError(w, common.InvalidArgumentf("room_id, kicker_id and target_id required"))
		return
	}

	if err := h.membershipService.Kick(r.Context(), req.RoomID, req.KickerID, req.TargetID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) AvailableInvitees(w http.ResponseWriter, r *http.Request) {
	roomID, err := common.ParseID(r.URL.Query().Get("room_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	userID, err := common.ParseID(r.URL.Query().Get("user_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	users, err := h.membershipService.AvailableInvitees(r.Context(), roomID, userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if users == nil {
		users = []*dbmysql.User{}
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) RoomMembers(w http.ResponseWriter, r *http.Request) {
	roomID, err := common.ParseID(r.URL.Query().Get("room_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	userID, err := common.ParseID(r.URL.Query().Get("user_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	members, err := h.membershipService.RoomMembers(r.Context(), roomID, userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

func (h *Handler) AdminForceJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID uint64 `json:"admin_id"`
		RoomID  uint64 `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("admin_id and room_id required"))
		return
	}

	if err := h.membershipService.AdminForceJoin(r.Context(), req.AdminID, req.RoomID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
