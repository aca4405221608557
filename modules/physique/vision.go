package physique

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"deezed-physique-server/modules/common/openai"
)

// runVisionPhysiqueScan - 사진 1장으로 구조화된 체형 분석 수행
// 여기서 나온 faceEndPercent가 이후 얼굴 보존 합성의 기준이 됨
func (s *Service) runVisionPhysiqueScan(ctx context.Context, imageURL, experienceLevel string) (*VisionAnalysis, error) {
	log.Printf("🔍 Running vision physique scan...")

	raw, err := s.ai.Complete(ctx, openai.CompletionRequest{
		SystemPrompt: visionScanSystemPrompt,
		UserPrompt:   fmt.Sprintf("Analyze this person's physique. They are a %s lifter. Provide your assessment as JSON.", experienceLevel),
		ImageURL:     imageURL,
		Temperature:  0.3,
		MaxTokens:    512,
	})
	if err != nil {
		return nil, fmt.Errorf("vision scan failed: %w", err)
	}

	var analysis VisionAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, openai.Malformed(fmt.Errorf("failed to parse vision scan output: %w", err))
	}

	log.Printf("✅ Vision scan complete (build: %s, faceEnd: %.0f%%)",
		analysis.BuildType, analysis.FaceEndPercent.Float64())

	return &analysis, nil
}
