package coach

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"deezed-physique-server/modules/common/database"
	"deezed-physique-server/modules/common/openai"
)

// Handler - 코치 채팅 HTTP 핸들러
type Handler struct {
	service *Service
	db      *database.Client
}

// NewHandler - Handler 생성
func NewHandler(service *Service, db *database.Client) *Handler {
	return &Handler{service: service, db: db}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/coach/chat", h.HandleChat).Methods("POST", "OPTIONS")
	log.Println("✅ Coach routes registered: /coach/chat")
}

// ChatRequest - 채팅 요청
type ChatRequest struct {
	Message string `json:"message"`
}

// HandleChat - POST /coach/chat
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	uid := r.Header.Get("X-User-Id")
	if uid == "" {
		writeChatError(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeChatError(w, http.StatusBadRequest, "message is required")
		return
	}

	profile, err := h.db.FetchUserProfile(uid)
	if err != nil {
		writeChatError(w, http.StatusNotFound, "User profile not found. Complete onboarding first.")
		return
	}

	weight, err := h.db.FetchLatestWeight(uid)
	if err != nil {
		log.Printf("⚠️  [Coach] Failed to fetch latest weight for %s: %v", uid, err)
	}

	resp, err := h.service.Chat(r.Context(), profile, weight, req.Message)
	if err != nil {
		switch {
		case openai.IsMalformed(err):
			log.Printf("❌ [Coach] Malformed AI output: %v", err)
			writeChatError(w, http.StatusBadGateway, "AI returned malformed data")
		case errors.Is(err, openai.ErrEmptyResponse):
			log.Printf("❌ [Coach] Empty AI response: %v", err)
			writeChatError(w, http.StatusBadGateway, "AI call failed")
		default:
			log.Printf("❌ [Coach] Chat failed: %v", err)
			writeChatError(w, http.StatusInternalServerError, "Chat failed")
		}
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"response": resp,
	})
}

func writeChatError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
