package room

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zzj2012/backend-project/internal/common"
)

type Handler struct {
	roomService RoomService
}

func NewHandler(roomService RoomService) *Handler {
	return &Handler{roomService: roomService}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/create_room", h.Create).Methods("POST")
	api.HandleFunc("/rename_room", h.Rename).Methods("POST")
	api.HandleFunc("/delete_room", h.Delete).Methods("POST")
	api.HandleFunc("/rooms", h.RoomsWithStatus).Methods("GET")
	api.HandleFunc("/toggle_pin", h.TogglePin).Methods("POST")
	api.HandleFunc("/admin/rooms", h.AdminListRooms).Methods("GET")
	api.HandleFunc("/admin/delete_room", h.AdminDeleteRoom).Methods("POST")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		OwnerID uint64 `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OwnerID == 0 {
		common.WriteError(w, common.InvalidArgumentf("name and owner_id required"))
		return
	}

	room, err := h.roomService.Create(r.Context(), req.Name, req.OwnerID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"room":    room,
	})
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID  uint64 `json:"room_id"`
		UserID  uint64 `json:"user_id"`
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == 0 || req.UserID == 0 {
		common.WriteError(w, common.InvalidArgumentf("room_id, user_id and new_name required"))
		return
	}

	room, err := h.roomService.Rename(r.Context(), req.RoomID, req.UserID, req.NewName)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"room":    room,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID uint64 `json:"room_id"`
		UserID uint64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == 0 || req.UserID == 0 {
		common.WriteError(w, common.InvalidArgumentf("room_id and user_id required"))
		return
	}

	if err := h.roomService.Delete(r.Context(), req.RoomID, req.UserID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) RoomsWithStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := common.ParseID(r.URL.Query().Get("user_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	rooms, err := h.roomService.RoomsWithStatus(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"rooms": rooms})
}

func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uint64 `json:"user_id"`
		RoomID uint64 `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("user_id and room_id required"))
		return
	}

	pinned, err := h.roomService.TogglePin(r.Context(), req.UserID, req.RoomID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"is_pinned": pinned,
	})
}

func (h *Handler) AdminListRooms(w http.ResponseWriter, r *http.Request) {
	adminID, err := common.ParseID(r.URL.Query().Get("admin_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	rooms, err := h.roomService.AdminListRooms(r.Context(), adminID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"rooms": rooms})
}

func (h *Handler) AdminDeleteRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID uint64 `json:"admin_id"`
		RoomID  uint64 `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("admin_id and room_id required"))
		return
	}

	if err := h.roomService.AdminDeleteRoom(r.Context(), req.AdminID, req.RoomID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
