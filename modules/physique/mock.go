package physique

import (
	"context"
	"log"
	"time"
)

// MockGenerator - provider 자격증명 없는 환경용 placeholder 생성기
// 실제 생성기와 동일한 인터페이스라 그대로 교체 가능
type MockGenerator struct{}

// NewMockGenerator - Mock 생성기 생성
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate - 변환 없이 워터마크 placeholder URL 반환
func (g *MockGenerator) Generate(ctx context.Context, input GeneratorInput) (*GeneratorOutput, error) {
	start := time.Now()

	log.Printf("🎭 Mock generator - returning placeholder (scenario: %s)", input.Scenario)

	return &GeneratorOutput{
		ImageURL: "https://placehold.co/1024x1024/png?text=Physique+Preview",
		Metadata: GeneratorMetadata{
			Model:            "mock",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			IsMock:           true,
		},
	}, nil
}
