package coach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deezed-physique-server/modules/common/model"
	"deezed-physique-server/modules/common/openai"
)

type fakeAI struct {
	response string
	err      error
	lastReq  openai.CompletionRequest
}

func (f *fakeAI) Complete(ctx context.Context, req openai.CompletionRequest) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func testProfile() *model.UserProfile {
	return &model.UserProfile{
		ID:              "user-1",
		ExperienceLevel: "beginner",
		Goal:            "hypertrophy",
		DaysPerWeek:     4,
		Equipment:       []string{"home_dumbbells"},
		Injuries:        []string{"left knee"},
	}
}

func TestChatReturnsResponse(t *testing.T) {
	ai := &fakeAI{response: `{
		"reply": "Swap lunges for leg press to spare the knee.",
		"rationale": "Avoids loaded knee flexion given the reported injury.",
		"suggestedActions": ["try leg press", "track pain level"]
	}`}

	weight := 185.0
	resp, err := NewService(ai).Chat(context.Background(), testProfile(), &weight, "my knee hurts on lunges")
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "leg press")
	assert.Len(t, resp.SuggestedActions, 2)

	// 프로필 컨텍스트가 프롬프트에 들어가야 함
	assert.Contains(t, ai.lastReq.UserPrompt, "beginner")
	assert.Contains(t, ai.lastReq.UserPrompt, "left knee")
	assert.Contains(t, ai.lastReq.UserPrompt, "185 lbs")
	assert.Contains(t, ai.lastReq.UserPrompt, "my knee hurts on lunges")
}

func TestChatMalformedOutput(t *testing.T) {
	ai := &fakeAI{response: "sure, here is some advice"}

	_, err := NewService(ai).Chat(context.Background(), testProfile(), nil, "help")
	require.Error(t, err)
	assert.True(t, openai.IsMalformed(err))
}

func TestChatMissingReply(t *testing.T) {
	ai := &fakeAI{response: `{"rationale": "n/a", "suggestedActions": []}`}

	_, err := NewService(ai).Chat(context.Background(), testProfile(), nil, "help")
	require.Error(t, err)
	assert.True(t, openai.IsMalformed(err))
}

func TestChatAIError(t *testing.T) {
	ai := &fakeAI{err: openai.ErrEmptyResponse}

	_, err := NewService(ai).Chat(context.Background(), testProfile(), nil, "help")
	require.ErrorIs(t, err, openai.ErrEmptyResponse)
}
