package user

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/dbmysql"
)

// Handler wires the REST surface to the user service.
type Handler struct {
	userService UserService
}

func NewHandler(userService UserService) *Handler {
	return &Handler{userService: userService}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/register", h.Register).Methods("POST")
	api.HandleFunc("/login", h.Login).Methods("POST")
	api.HandleFunc("/user/status", h.Status).Methods("GET")
	api.HandleFunc("/search_users", h.Search).Methods("GET")
	api.HandleFunc("/delete_account", h.DeleteAccount).Methods("POST")
	api.HandleFunc("/admin/users", h.AdminListUsers).Methods("GET")
	api.HandleFunc("/admin/delete_user", h.AdminDeleteUser).Methods("POST")
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.InvalidArgumentf("invalid payload"))
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.InvalidArgumentf("invalid payload"))
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"token":    token,
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := common.ParseID(r.URL.Query().Get("user_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	user, err := h.userService.Status(r.Context(), userID)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			common.WriteJSON(w, http.StatusOK, map[string]interface{}{"exists": false})
			return
		}
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exists":   true,
		"username": user.Username,
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if users == nil {
		users = []*dbmysql.User{} // always render an array
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   uint64 `json:"user_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.Password == "" {
		common.WriteError(w, common.InvalidArgumentf("user_id and password required"))
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), req.UserID, req.Password); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	adminID, err := common.ParseID(r.URL.Query().Get("admin_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	users, err := h.userService.AdminListUsers(r.Context(), adminID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID      uint64 `json:"admin_id"`
		TargetUserID uint64 `json:"target_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == 0 || req.TargetUserID == 0 {
		common.WriteError(w, common.InvalidArgumentf("admin_id and target_user_id required"))
		return
	}

	if err := h.userService.AdminDeleteUser(r.Context(), req.AdminID, req.TargetUserID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
