package physique

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"deezed-physique-server/modules/common/model"
	"deezed-physique-server/modules/common/openai"
)

// AIClient - 텍스트/비전 completion 호출 인터페이스
type AIClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

// Storage - 파이프라인에 필요한 스토리지 연산
type Storage interface {
	CreateDownloadURL(ctx context.Context, storageKey string) (string, error)
	UploadBuffer(ctx context.Context, userID, photoType string, data []byte, contentType string) (string, error)
}

// Generator - 이미지 생성기 인터페이스 (실제/Mock 교체 지점)
type Generator interface {
	Generate(ctx context.Context, input GeneratorInput) (*GeneratorOutput, error)
}

// AnalyzeInput - 파이프라인 1회 실행 입력
type AnalyzeInput struct {
	UserID          string
	PhotoStorageKey string
	Scenario        string
	FocusMuscle     string
	UserProfile     Profile
}

// Service - 체형 시뮬레이션 파이프라인 오케스트레이터
type Service struct {
	ai         AIClient
	storage    Storage
	generator  Generator
	httpClient *http.Client
}

// NewService - Service 생성 (의존성 명시 주입)
func NewService(ai AIClient, storage Storage, generator Generator) *Service {
	return &Service{
		ai:         ai,
		storage:    storage,
		generator:  generator,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// AnalyzeAndSimulate - 전체 파이프라인 실행
// vision 스캔 → (플랜 분석 ∥ 이미지 생성) → 얼굴 보존 합성 → 결과 조립/검증
func (s *Service) AnalyzeAndSimulate(ctx context.Context, input AnalyzeInput) (*AIOutput, error) {
	log.Printf("📥 Starting physique analysis (user: %s, scenario: %s)", input.UserID, input.Scenario)

	sourceURL, err := s.storage.CreateDownloadURL(ctx, input.PhotoStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create source image URL: %w", err)
	}

	// 1단계: vision 스캔 (이후 두 호출이 모두 이 결과에 의존)
	visionResult, err := s.runVisionPhysiqueScan(ctx, sourceURL, input.UserProfile.ExperienceLevel)
	if err != nil {
		return nil, err
	}

	// 2단계: 플랜 분석과 이미지 생성은 서로 독립이라 병렬 실행
	var plan planAnalysis
	var genOutput *GeneratorOutput

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := s.ai.Complete(gctx, openai.CompletionRequest{
			SystemPrompt: physiqueSystemPrompt,
			UserPrompt:   buildPhysiqueUserPrompt(input, visionResult),
			Temperature:  0.6,
			MaxTokens:    4096,
		})
		if err != nil {
			return fmt.Errorf("plan analysis failed: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &plan); err != nil {
			return openai.Malformed(fmt.Errorf("failed to parse plan analysis output: %w", err))
		}
		return nil
	})

	g.Go(func() error {
		out, err := s.generator.Generate(gctx, GeneratorInput{
			SourceImageURL: sourceURL,
			Scenario:       input.Scenario,
			FocusMuscle:    input.FocusMuscle,
			UserProfile:    input.UserProfile,
			VisionAnalysis: visionResult,
		})
		if err != nil {
			return err
		}
		genOutput = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3단계: 얼굴 보존 합성
	// 얼굴이 보이는 사진(faceEnd > 0) + 실제 생성 결과일 때만 수행
	// 합성 실패는 전체 실패가 아님 - 생성 원본 URL로 degrade
	finalImageURL := genOutput.ImageURL
	faceEnd := visionResult.FaceEndPercent.Float64()

	if faceEnd > 0 && !genOutput.Metadata.IsMock {
		compositeBytes, err := CompositePreserveFace(ctx, s.httpClient, sourceURL, genOutput.ImageURL, faceEnd)
		if err != nil {
			log.Printf("⚠️  Composite failed, falling back to generated image: %v", err)
		} else {
			storageKey, err := s.storage.UploadBuffer(ctx, input.UserID, model.PhotoTypePhysiqueOutput, compositeBytes, "image/png")
			if err != nil {
				log.Printf("⚠️  Composite upload failed, falling back to generated image: %v", err)
			} else if url, err := s.storage.CreateDownloadURL(ctx, storageKey); err != nil {
				log.Printf("⚠️  Composite URL issue failed, falling back to generated image: %v", err)
			} else {
				finalImageURL = url
			}
		}
	}

	// 4단계: 결과 조립 + 경계 검증
	resultType := ImageResultGenerated
	if genOutput.Metadata.IsMock {
		resultType = ImageResultMockPreview
	}

	output := &AIOutput{
		EstimatedCurrent: plan.EstimatedCurrent,
		Scenario:         input.Scenario,
		PlanUpdate:       plan.PlanUpdate,
		NutritionTargets: plan.NutritionTargets,
		ImageResult: ImageResult{
			Type:     resultType,
			URL:      finalImageURL,
			Metadata: genOutput.Metadata,
		},
		Disclaimers: append([]string(nil), FitnessDisclaimers...),
		Explanation: plan.Explanation,
	}

	if err := output.Validate(); err != nil {
		return nil, openai.Malformed(fmt.Errorf("analysis output failed validation: %w", err))
	}

	log.Printf("✅ Physique analysis complete (user: %s, image: %s)", input.UserID, resultType)
	return output, nil
}
