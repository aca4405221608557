package physique

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"deezed-physique-server/modules/common/database"
	"deezed-physique-server/modules/common/model"
	"deezed-physique-server/modules/common/openai"
	"deezed-physique-server/modules/common/storage"
	"deezed-physique-server/modules/moderation"
)

// JobQueueKey - 비동기 분석 Job Queue 키
const JobQueueKey = "physique:jobs"

// Handler - 체형 시뮬레이션 HTTP 핸들러
type Handler struct {
	service *Service
	db      *database.Client
	storage *storage.Client
	rdb     *redis.Client
}

// NewHandler - Handler 생성
func NewHandler(service *Service, db *database.Client, storageClient *storage.Client, rdb *redis.Client) *Handler {
	return &Handler{
		service: service,
		db:      db,
		storage: storageClient,
		rdb:     rdb,
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/physique/upload-url", h.HandleUploadURL).Methods("POST", "OPTIONS")
	r.HandleFunc("/physique/analyze", h.HandleAnalyze).Methods("POST", "OPTIONS")
	r.HandleFunc("/physique/analyze-jobs", h.HandleEnqueueAnalysis).Methods("POST", "OPTIONS")
	r.HandleFunc("/physique/jobs/{jobId}", h.HandleJobStatus).Methods("GET", "OPTIONS")
	log.Println("✅ Physique routes registered: /physique/*")
}

// UploadURLRequest - presigned 업로드 URL 요청
type UploadURLRequest struct {
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// AnalyzeRequest - 분석 요청
type AnalyzeRequest struct {
	PhotoStorageKey string `json:"photoStorageKey"`
	Scenario        string `json:"scenario"`
	FocusMuscle     string `json:"focusMuscle,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Success: false, Error: message})
}

// setCORS - 공통 응답 헤더. OPTIONS면 true 반환
func setCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// userID - 게이트웨이에서 인증 후 넘겨주는 사용자 식별자
func userID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

// HandleUploadURL - POST /physique/upload-url
func (h *Handler) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	if setCORS(w, r) {
		return
	}

	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var req UploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !moderation.ValidateContentType(req.ContentType) {
		writeError(w, http.StatusBadRequest, "Unsupported content type. Use JPEG, PNG, or WebP.")
		return
	}
	if req.SizeBytes > 0 && !moderation.ValidateFileSize(req.SizeBytes) {
		writeError(w, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
		return
	}

	ticket, err := h.storage.CreateUploadURL(r.Context(), uid, model.PhotoTypePhysiqueInput, req.ContentType)
	if err != nil {
		log.Printf("❌ [Physique] Failed to create upload URL: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create upload URL")
		return
	}

	if err := h.db.CreatePhotoAsset(r.Context(), uid, model.PhotoTypePhysiqueInput, ticket.StorageKey); err != nil {
		log.Printf("❌ [Physique] Failed to record photo asset: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record photo asset")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"ticket":  ticket,
	})
}

// validateAnalyzeRequest - 시나리오/근육 그룹 조합 검증
func validateAnalyzeRequest(req *AnalyzeRequest) string {
	if req.PhotoStorageKey == "" {
		return "photoStorageKey is required"
	}
	if !ValidScenarios[req.Scenario] {
		return "scenario must be 3_month_lock_in or single_muscle_focus"
	}
	if req.Scenario == ScenarioMuscleFocus && !ValidMuscleGroups[req.FocusMuscle] {
		return "focusMuscle is required for single_muscle_focus and must be a valid muscle group"
	}
	return ""
}

// loadProfile - 프로필 + 최근 체중 조회, 연령 인증 확인
func (h *Handler) loadProfile(ctx context.Context, uid string) (*Profile, string, int) {
	dbProfile, err := h.db.FetchUserProfile(uid)
	if err != nil {
		return nil, "User profile not found. Complete onboarding first.", http.StatusNotFound
	}
	if !dbProfile.IsAgeVerified {
		return nil, "Age verification is required before using physique simulation.", http.StatusForbidden
	}

	weight, err := h.db.FetchLatestWeight(uid)
	if err != nil {
		log.Printf("⚠️  [Physique] Failed to fetch latest weight for %s: %v", uid, err)
	}

	return &Profile{
		ExperienceLevel: dbProfile.ExperienceLevel,
		Goal:            dbProfile.Goal,
		DaysPerWeek:     dbProfile.DaysPerWeek,
		Equipment:       dbProfile.Equipment,
		Injuries:        dbProfile.Injuries,
		Weight:          weight,
	}, "", 0
}

// HandleAnalyze - POST /physique/analyze (동기 실행)
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if setCORS(w, r) {
		return
	}

	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateAnalyzeRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// 본인 사진인지 확인
	if _, err := h.db.FetchPhotoAsset(req.PhotoStorageKey, uid, model.PhotoTypePhysiqueInput); err != nil {
		log.Printf("❌ [Physique] Photo not found or not owned: %s / %s", uid, req.PhotoStorageKey)
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}

	modResult, err := moderation.CheckImageContent(r.Context(), req.PhotoStorageKey)
	if err != nil || !modResult.Approved {
		writeError(w, http.StatusBadRequest, "Photo did not pass content moderation")
		return
	}

	profile, errMsg, status := h.loadProfile(r.Context(), uid)
	if errMsg != "" {
		writeError(w, status, errMsg)
		return
	}

	output, err := h.service.AnalyzeAndSimulate(r.Context(), AnalyzeInput{
		UserID:          uid,
		PhotoStorageKey: req.PhotoStorageKey,
		Scenario:        req.Scenario,
		FocusMuscle:     req.FocusMuscle,
		UserProfile:     *profile,
	})
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	if err := h.db.SaveAIResult(r.Context(), uid, "physique", map[string]interface{}{
		"photoStorageKey": req.PhotoStorageKey,
		"scenario":        req.Scenario,
		"focusMuscle":     req.FocusMuscle,
	}, output); err != nil {
		log.Printf("⚠️  [Physique] Failed to persist result for %s: %v", uid, err)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"result":  output,
	})
}

// writeAnalysisError - 파이프라인 에러를 HTTP 상태로 매핑
func (h *Handler) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSafetyRejected):
		writeError(w, http.StatusBadRequest, err.Error())
	case openai.IsMalformed(err):
		log.Printf("❌ [Physique] Malformed AI output: %v", err)
		writeError(w, http.StatusBadGateway, "AI returned malformed data")
	case errors.Is(err, openai.ErrEmptyResponse):
		log.Printf("❌ [Physique] Empty AI response: %v", err)
		writeError(w, http.StatusBadGateway, "AI call failed")
	default:
		log.Printf("❌ [Physique] Analysis failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Analysis failed")
	}
}

// HandleEnqueueAnalysis - POST /physique/analyze-jobs (비동기 실행)
func (h *Handler) HandleEnqueueAnalysis(w http.ResponseWriter, r *http.Request) {
	if setCORS(w, r) {
		return
	}

	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateAnalyzeRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.db.FetchPhotoAsset(req.PhotoStorageKey, uid, model.PhotoTypePhysiqueInput); err != nil {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}

	jobID := uuid.NewString()
	job := &model.AnalysisJob{
		JobID:           jobID,
		UserID:          uid,
		PhotoStorageKey: req.PhotoStorageKey,
		Scenario:        req.Scenario,
		JobStatus:       model.StatusPending,
	}
	if req.FocusMuscle != "" {
		job.FocusMuscle = &req.FocusMuscle
	}

	if err := h.db.CreateAnalysisJob(r.Context(), job); err != nil {
		log.Printf("❌ [Physique] Failed to create analysis job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.rdb.LPush(ctx, JobQueueKey, jobID).Result(); err != nil {
		log.Printf("❌ [Physique] Redis LPUSH failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	queueLen, _ := h.rdb.LLen(ctx, JobQueueKey).Result()
	log.Printf("✅ [Physique] Job %s enqueued (position: %d)", jobID, queueLen)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"jobId":         jobID,
		"queue":         JobQueueKey,
		"queuePosition": queueLen,
	})
}

// HandleJobStatus - GET /physique/jobs/{jobId}
func (h *Handler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	if setCORS(w, r) {
		return
	}

	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "X-User-Id header is required")
		return
	}

	jobID := mux.Vars(r)["jobId"]
	job, err := h.db.FetchAnalysisJob(jobID)
	if err != nil || job.UserID != uid {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	resp := map[string]interface{}{
		"success": true,
		"jobId":   job.JobID,
		"status":  job.JobStatus,
	}
	if job.ErrorMessage != nil {
		resp["error"] = *job.ErrorMessage
	}
	if len(job.ResultJSON) > 0 {
		resp["result"] = json.RawMessage(job.ResultJSON)
	}

	json.NewEncoder(w).Encode(resp)
}
