package chat

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmongo"
)

type Handler struct {
	chatService ChatService
	files       common.FileStore
}

func NewHandler(chatService ChatService, files common.FileStore) *Handler {
	return &Handler{chatService: chatService, files: files}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/send_message", h.SendMessage).Methods("POST")
	api.HandleFunc("/revoke_message", h.RevokeMessage).Methods("POST")
	api.HandleFunc("/messages", h.ListMessages).Methods("GET")
	api.HandleFunc("/message", h.GetMessage).Methods("GET")
	api.HandleFunc("/mark_read", h.MarkRead).Methods("POST")
	api.HandleFunc("/download/{file_id}", h.Download).Methods("GET")
	api.HandleFunc("/admin/messages", h.AdminListMessages).Methods("GET")
	api.HandleFunc("/admin/clear_history", h.AdminClearHistory).Methods("POST")
	api.HandleFunc("/admin/broadcast_warning", h.AdminBroadcastWarning).Methods("POST")
}

// SendMessage accepts JSON for text messages and multipart form data when a
// file rides along; the file is stored first and the message references it.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.sendFileMessage(w, r)
		return
	}

	var req struct {
		UserID      uint64 `json:"user_id"`
		RoomID      uint64 `json:"room_id"`
		MessageType string `json:"message_type"`
		Content     string `json:"content"`
		FilePath    string `json:"file_path"`
		FileName    string `json:"file_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("user_id and room_id required"))
		return
	}
	if req.MessageType == "" {
		req.MessageType = string(common.MessageText)
	}

	msg, err := h.chatService.Post(r.Context(), req.UserID, req.RoomID, common.MessageType(req.MessageType), req.Content, req.FilePath, req.FileName)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}

func (h *Handler) sendFileMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(dbmongo.MaxUploadBytes); err != nil {
		common.WriteError(w, common.InvalidArgumentf("invalid multipart payload"))
		return
	}

	userID, err := common.ParseID(r.FormValue("user_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	roomID, err := common.ParseID(r.FormValue("room_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	msgType := r.FormValue("message_type")
	if msgType == "" {
		msgType = string(common.MessageFile)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, common.InvalidArgumentf("file part required"))
		return
	}
	defer file.Close()

	stored, err := h.files.Upload(r.Context(), header.Filename, file)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	msg, err := h.chatService.Post(r.Context(), userID, roomID, common.MessageType(msgType), r.FormValue("content"), stored.ID, stored.Filename)
	if err != nil {
		// the message was refused; drop the orphaned upload
		if delErr := h.files.Delete(r.Context(), stored.ID); delErr != nil {
			log.Printf("delete orphaned upload %s: %v", stored.ID, delErr)
		}
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}

func (h *Handler) RevokeMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID uint64 `json:"message_id"`
		UserID    uint64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MessageID == 0 || req.UserID == 0 {
		common.WriteError(w, common.InvalidArgumentf("message_id and user_id required"))
		return
	}

	if err := h.chatService.Revoke(r.Context(), req.MessageID, req.UserID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
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

	msgs, err := h.chatService.List(r.Context(), roomID, userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := common.ParseID(r.URL.Query().Get("message_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	msg, err := h.chatService.Get(r.Context(), messageID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": msg})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uint64 `json:"user_id"`
		RoomID uint64 `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("user_id and room_id required"))
		return
	}

	if err := h.chatService.MarkRead(r.Context(), req.UserID, req.RoomID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Download streams the stored file bytes back to the client.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["file_id"]
	if fileID == "" {
		common.WriteError(w, common.InvalidArgumentf("file_id required"))
		return
	}

	rc, stored, err := h.files.Download(r.Context(), fileID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+stored.Filename+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("stream file %s: %v", fileID, err)
	}
}

func (h *Handler) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	adminID, err := common.ParseID(r.URL.Query().Get("admin_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	roomID, err := common.ParseID(r.URL.Query().Get("room_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	msgs, err := h.chatService.AdminList(r.Context(), adminID, roomID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *Handler) AdminClearHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID uint64 `json:"admin_id"`
		RoomID  uint64 `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("admin_id and room_id required"))
		return
	}

	count, err := h.chatService.AdminClearHistory(r.Context(), req.AdminID, req.RoomID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": count,
	})
}

func (h *Handler) AdminBroadcastWarning(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID uint64 `json:"admin_id"`
		RoomID  uint64 `json:"room_id"`
		Text    string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == 0 || req.RoomID == 0 {
		common.WriteError(w, common.InvalidArgumentf("admin_id, room_id and text required"))
		return
	}

	msg, err := h.chatService.AdminBroadcastWarning(r.Context(), req.AdminID, req.RoomID, req.Text)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}
