package physique

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"deezed-physique-server/modules/common/database"
	"deezed-physique-server/modules/common/model"
)

// StartWorker - 비동기 분석 Job Worker 시작
// BRPOP으로 Queue를 감시하고 Job을 goroutine으로 처리
func StartWorker(service *Service, db *database.Client, rdb *redis.Client) {
	log.Println("🔄 Physique analysis worker starting...")
	log.Printf("👀 Watching queue: %s", JobQueueKey)

	ctx := context.Background()

	for {
		result, err := rdb.BRPop(ctx, 0, JobQueueKey).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0]은 queue 이름, result[1]이 jobId
		jobID := result[1]
		log.Printf("🎯 Received analysis job: %s", jobID)

		go processAnalysisJob(ctx, service, db, jobID)
	}
}

// processAnalysisJob - Job 1건 처리
func processAnalysisJob(ctx context.Context, service *Service, db *database.Client, jobID string) {
	log.Printf("🚀 Processing analysis job: %s", jobID)

	job, err := db.FetchAnalysisJob(jobID)
	if err != nil {
		log.Printf("❌ Failed to fetch job %s: %v", jobID, err)
		return
	}

	if err := db.UpdateAnalysisJobStatus(ctx, jobID, model.StatusProcessing, ""); err != nil {
		log.Printf("⚠️  Failed to mark job %s processing: %v", jobID, err)
	}

	dbProfile, err := db.FetchUserProfile(job.UserID)
	if err != nil {
		failJob(ctx, db, jobID, "User profile not found")
		return
	}

	weight, err := db.FetchLatestWeight(job.UserID)
	if err != nil {
		log.Printf("⚠️  Failed to fetch latest weight for %s: %v", job.UserID, err)
	}

	focusMuscle := ""
	if job.FocusMuscle != nil {
		focusMuscle = *job.FocusMuscle
	}

	output, err := service.AnalyzeAndSimulate(ctx, AnalyzeInput{
		UserID:          job.UserID,
		PhotoStorageKey: job.PhotoStorageKey,
		Scenario:        job.Scenario,
		FocusMuscle:     focusMuscle,
		UserProfile: Profile{
			ExperienceLevel: dbProfile.ExperienceLevel,
			Goal:            dbProfile.Goal,
			DaysPerWeek:     dbProfile.DaysPerWeek,
			Equipment:       dbProfile.Equipment,
			Injuries:        dbProfile.Injuries,
			Weight:          weight,
		},
	})
	if err != nil {
		log.Printf("❌ Job %s failed: %v", jobID, err)
		failJob(ctx, db, jobID, err.Error())
		return
	}

	if err := db.SaveAnalysisJobResult(ctx, jobID, output); err != nil {
		log.Printf("❌ Failed to save job %s result: %v", jobID, err)
		failJob(ctx, db, jobID, "Failed to save result")
		return
	}

	if err := db.SaveAIResult(ctx, job.UserID, "physique", map[string]interface{}{
		"photoStorageKey": job.PhotoStorageKey,
		"scenario":        job.Scenario,
		"focusMuscle":     focusMuscle,
		"jobId":           jobID,
	}, output); err != nil {
		log.Printf("⚠️  Failed to persist AI result for job %s: %v", jobID, err)
	}

	log.Printf("✅ Job %s completed", jobID)
}

// failJob - Job 실패 기록
func failJob(ctx context.Context, db *database.Client, jobID, message string) {
	if err := db.UpdateAnalysisJobStatus(ctx, jobID, model.StatusFailed, message); err != nil {
		log.Printf("❌ Failed to mark job %s failed: %v", jobID, err)
	}
}
