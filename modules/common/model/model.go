package model

import (
	"encoding/json"
	"time"
)

// Job 상태
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Photo 타입
const (
	PhotoTypeProgress       = "progress"
	PhotoTypePhysiqueInput  = "physique_input"
	PhotoTypePhysiqueOutput = "physique_output"
)

// UserProfile - deezed_user_profiles 테이블
type UserProfile struct {
	ID              string    `json:"id"`
	ExperienceLevel string    `json:"experience_level"`
	Goal            string    `json:"goal"`
	DaysPerWeek     int       `json:"days_per_week"`
	Equipment       []string  `json:"equipment"`
	Injuries        []string  `json:"injuries"`
	IsAgeVerified   bool      `json:"is_age_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// PhotoAsset - deezed_photo_assets 테이블
type PhotoAsset struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PhotoType  string    `json:"photo_type"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// BodyMetric - deezed_body_metrics 테이블
type BodyMetric struct {
	ID     string   `json:"id"`
	UserID string   `json:"user_id"`
	Date   string   `json:"date"`
	Weight *float64 `json:"weight"`
}

// AnalysisJob - deezed_analysis_jobs 테이블 (비동기 분석 Job)
type AnalysisJob struct {
	JobID           string          `json:"job_id"`
	UserID          string          `json:"user_id"`
	PhotoStorageKey string          `json:"photo_storage_key"`
	Scenario        string          `json:"scenario"`
	FocusMuscle     *string         `json:"focus_muscle"`
	JobStatus       string          `json:"job_status"`
	ErrorMessage    *string         `json:"error_message"`
	ResultJSON      json.RawMessage `json:"result_json"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AIResult - deezed_ai_results 테이블 (감사 기록용)
type AIResult struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	ResultType string                 `json:"result_type"`
	InputRefs  map[string]interface{} `json:"input_refs"`
	OutputJSON json.RawMessage        `json:"output_json"`
	CreatedAt  time.Time              `json:"created_at"`
}
