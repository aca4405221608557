package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"deezed-physique-server/modules/common/config"
	"deezed-physique-server/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient(cfg *config.Config) *Client {
	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// FetchUserProfile - 사용자 프로필 조회
func (c *Client) FetchUserProfile(userID string) (*model.UserProfile, error) {
	log.Printf("🔍 Fetching user profile: %s", userID)

	var profiles []model.UserProfile

	data, _, err := c.supabase.From("deezed_user_profiles").
		Select("*", "exact", false).
		Eq("id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile not found: %s", userID)
	}

	profile := &profiles[0]
	log.Printf("✅ Profile fetched: %s (level: %s, goal: %s, days: %d)",
		profile.ID, profile.ExperienceLevel, profile.Goal, profile.DaysPerWeek)

	return profile, nil
}

// FetchPhotoAsset - 사진 소유권 확인용 조회
func (c *Client) FetchPhotoAsset(storageKey, userID, photoType string) (*model.PhotoAsset, error) {
	log.Printf("🔍 Fetching photo asset: %s (user: %s)", storageKey, userID)

	var photos []model.PhotoAsset

	data, _, err := c.supabase.From("deezed_photo_assets").
		Select("*", "exact", false).
		Eq("storage_key", storageKey).
		Eq("user_id", userID).
		Eq("photo_type", photoType).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query photo asset: %w", err)
	}

	if err := json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("failed to parse photo asset response: %w", err)
	}

	if len(photos) == 0 {
		return nil, fmt.Errorf("photo not found: %s", storageKey)
	}

	return &photos[0], nil
}

// CreatePhotoAsset - 사진 레코드 생성
func (c *Client) CreatePhotoAsset(ctx context.Context, userID, photoType, storageKey string) error {
	log.Printf("💾 Creating photo asset record: %s (%s)", storageKey, photoType)

	insertData := map[string]interface{}{
		"user_id":     userID,
		"photo_type":  photoType,
		"storage_key": storageKey,
	}

	_, _, err := c.supabase.From("deezed_photo_assets").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert photo asset: %w", err)
	}

	log.Printf("✅ Photo asset record created: %s", storageKey)
	return nil
}

// FetchLatestWeight - 최근 체중 조회 (없으면 nil)
func (c *Client) FetchLatestWeight(userID string) (*float64, error) {
	var metrics []model.BodyMetric

	data, _, err := c.supabase.From("deezed_body_metrics").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query body metrics: %w", err)
	}

	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("failed to parse body metric response: %w", err)
	}

	if len(metrics) == 0 {
		return nil, nil
	}

	return metrics[0].Weight, nil
}

// SaveAIResult - AI 결과 감사 기록 저장
func (c *Client) SaveAIResult(ctx context.Context, userID, resultType string, inputRefs map[string]interface{}, output interface{}) error {
	log.Printf("💾 Saving AI result for user %s (type: %s)", userID, resultType)

	outputJSON, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to marshal AI output: %w", err)
	}

	insertData := map[string]interface{}{
		"user_id":     userID,
		"result_type": resultType,
		"input_refs":  inputRefs,
		"output_json": json.RawMessage(outputJSON),
	}

	_, _, err = c.supabase.From("deezed_ai_results").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert AI result: %w", err)
	}

	log.Printf("✅ AI result saved for user %s", userID)
	return nil
}

// CreateAnalysisJob - 비동기 분석 Job 생성
func (c *Client) CreateAnalysisJob(ctx context.Context, job *model.AnalysisJob) error {
	log.Printf("💾 Creating analysis job: %s", job.JobID)

	insertData := map[string]interface{}{
		"job_id":            job.JobID,
		"user_id":           job.UserID,
		"photo_storage_key": job.PhotoStorageKey,
		"scenario":          job.Scenario,
		"focus_muscle":      job.FocusMuscle,
		"job_status":        model.StatusPending,
	}

	_, _, err := c.supabase.From("deezed_analysis_jobs").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert analysis job: %w", err)
	}

	log.Printf("✅ Analysis job created: %s", job.JobID)
	return nil
}

// FetchAnalysisJob - Job 데이터 조회
func (c *Client) FetchAnalysisJob(jobID string) (*model.AnalysisJob, error) {
	log.Printf("🔍 Fetching analysis job: %s", jobID)

	var jobs []model.AnalysisJob

	data, _, err := c.supabase.From("deezed_analysis_jobs").
		Select("*", "exact", false).
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query analysis job: %w", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse job response: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	job := &jobs[0]
	log.Printf("✅ Job fetched: %s (status: %s, scenario: %s)", job.JobID, job.JobStatus, job.Scenario)

	return job, nil
}

// UpdateAnalysisJobStatus - Job 상태 업데이트
func (c *Client) UpdateAnalysisJobStatus(ctx context.Context, jobID, status string, errorMessage string) error {
	log.Printf("📝 Updating job %s status to: %s", jobID, status)

	updateData := map[string]interface{}{
		"job_status": status,
		"updated_at": "now()",
	}

	if errorMessage != "" {
		updateData["error_message"] = errorMessage
	}

	if status == model.StatusProcessing {
		updateData["started_at"] = "now()"
	} else if status == model.StatusCompleted || status == model.StatusFailed {
		updateData["completed_at"] = "now()"
	}

	_, _, err := c.supabase.From("deezed_analysis_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	log.Printf("✅ Job %s status updated to: %s", jobID, status)
	return nil
}

// SaveAnalysisJobResult - Job 결과 저장 + 완료 처리
func (c *Client) SaveAnalysisJobResult(ctx context.Context, jobID string, result interface{}) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal job result: %w", err)
	}

	updateData := map[string]interface{}{
		"job_status":   model.StatusCompleted,
		"result_json":  json.RawMessage(resultJSON),
		"completed_at": "now()",
	}

	_, _, err = c.supabase.From("deezed_analysis_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to save job result: %w", err)
	}

	log.Printf("✅ Job %s result saved", jobID)
	return nil
}
