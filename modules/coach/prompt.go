package coach

import (
	"fmt"
	"strings"

	"deezed-physique-server/modules/common/model"
)

// coachSystemPrompt - AI 코치 채팅 시스템 프롬프트
const coachSystemPrompt = `You are Deezed AI Coach, a knowledgeable and encouraging fitness coach.

IMPORTANT DISCLAIMERS:
- You are NOT a medical professional. Never diagnose injuries or medical conditions.
- For pain or injury concerns, always recommend seeing a healthcare professional.

RULES:
- Keep answers practical and actionable.
- Respect the user's available equipment and training days.
- Never shame the user. Be encouraging but honest.
- Output ONLY valid JSON matching this schema:

{
  "reply": "string - your answer to the user, conversational tone",
  "rationale": "string - one sentence on why this advice fits this user",
  "suggestedActions": ["string - 0-3 concrete next steps"]
}`

// buildCoachContext - 사용자 프로필을 채팅 컨텍스트로 조립
func buildCoachContext(profile *model.UserProfile, weight *float64, message string) string {
	var sb strings.Builder

	sb.WriteString("User Profile:\n")
	sb.WriteString(fmt.Sprintf("- Experience: %s\n", profile.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("- Goal: %s\n", profile.Goal))
	sb.WriteString(fmt.Sprintf("- Training days/week: %d\n", profile.DaysPerWeek))
	sb.WriteString(fmt.Sprintf("- Equipment: %s\n", strings.Join(profile.Equipment, ", ")))

	injuries := "None"
	if len(profile.Injuries) > 0 {
		injuries = strings.Join(profile.Injuries, ", ")
	}
	sb.WriteString(fmt.Sprintf("- Injuries: %s\n", injuries))

	if weight != nil {
		sb.WriteString(fmt.Sprintf("- Weight: %g lbs\n", *weight))
	}

	sb.WriteString("\nUser message:\n")
	sb.WriteString(message)

	return sb.String()
}
