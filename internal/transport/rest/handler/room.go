package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"typerace/internal/service"
	"typerace/internal/transport/rest/middleware"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomSvc   *service.RoomService
	playerSvc *service.PlayerService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc *service.RoomService, playerSvc *service.PlayerService) *RoomHandler {
	return &RoomHandler{
		roomSvc:   roomSvc,
		playerSvc: playerSvc,
	}
}

// CreateRoomRequest is the optional request body for creating a room
type CreateRoomRequest struct {
	Text string `json:"text,omitempty"`
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	// The body is optional; an empty or absent one means "pick a quote".
	_ = json.NewDecoder(r.Body).Decode(&req)

	room, err := h.roomSvc.CreateRoom(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"code": room.Code})
}

// JoinRequest is the request body for joining a room
type JoinRequest struct {
	Name      string `json:"name"`
	ClientKey string `json:"clientKey,omitempty"`
}

// Join handles POST /v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp, err := h.playerSvc.Join(r.Context(), code, req.Name, req.ClientKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Start handles POST /v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	startTime, err := h.roomSvc.Start(r.Context(), code, playerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"startTime": startTime})
}

// Snapshot handles GET /v1/rooms/{code}
func (h *RoomHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	snap, err := h.roomSvc.Snapshot(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// ProgressRequest is the request body for a progress push
type ProgressRequest struct {
	Progress int `json:"progress"`
	WPM      int `json:"wpm"`
}

// Progress handles POST /v1/rooms/{code}/progress
func (h *RoomHandler) Progress(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.playerSvc.PushProgress(r.Context(), code, playerID, req.Progress, req.WPM); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	top := 20
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	entries, err := h.playerSvc.Leaderboard(r.Context(), code, top)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"leaderboard": entries}
	if playerID := r.URL.Query().Get("player"); playerID != "" {
		rank, err := h.playerSvc.PlayerRank(r.Context(), code, playerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp["rank"] = rank
	}

	writeJSON(w, http.StatusOK, resp)
}

// Identity handles GET /v1/identity/{key}
func (h *RoomHandler) Identity(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	name, err := h.playerSvc.RememberedName(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}
