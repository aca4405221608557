package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"deezed-physique-server/modules/common/model"
	"deezed-physique-server/modules/common/openai"
)

// AIClient - 채팅 completion 호출 인터페이스
type AIClient interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

// CoachResponse - 코치 응답
type CoachResponse struct {
	Reply            string   `json:"reply"`
	Rationale        string   `json:"rationale"`
	SuggestedActions []string `json:"suggestedActions"`
}

// Service - AI 코치 채팅 서비스
type Service struct {
	ai AIClient
}

// NewService - Service 생성
func NewService(ai AIClient) *Service {
	return &Service{ai: ai}
}

// Chat - 프로필 컨텍스트를 붙여 코치 응답 생성
func (s *Service) Chat(ctx context.Context, profile *model.UserProfile, weight *float64, message string) (*CoachResponse, error) {
	log.Printf("💬 Coach chat (user: %s)", profile.ID)

	raw, err := s.ai.Complete(ctx, openai.CompletionRequest{
		SystemPrompt: coachSystemPrompt,
		UserPrompt:   buildCoachContext(profile, weight, message),
		Temperature:  0.7,
		MaxTokens:    1024,
	})
	if err != nil {
		return nil, fmt.Errorf("coach chat failed: %w", err)
	}

	var resp CoachResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, openai.Malformed(fmt.Errorf("failed to parse coach output: %w", err))
	}
	if resp.Reply == "" {
		return nil, openai.Malformed(fmt.Errorf("coach output missing reply"))
	}

	return &resp, nil
}
