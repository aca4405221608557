package physique

import (
	"fmt"
	"strings"
)

// BuildPrompt - 이미지 생성기용 프롬프트 생성
// 변화 설명 + 얼굴/머리/문신 등 identity 보존 지시문으로 구성
func BuildPrompt(input GeneratorInput) string {
	changeDesc := buildChangeDescription(input.UserProfile, input.VisionAnalysis)
	lock := buildIdentityLock(input.VisionAnalysis)

	if input.Scenario == ScenarioLockIn {
		return fmt.Sprintf("%s. %s", changeDesc, lock)
	}

	focus := input.FocusMuscle
	if focus == "" {
		focus = "muscles"
	}
	return fmt.Sprintf("Make the %s bigger and more defined. %s. %s", focus, changeDesc, lock)
}

// buildIdentityLock - 생성 모델이 바꾸면 안 되는 요소 고정
func buildIdentityLock(va *VisionAnalysis) string {
	facialHairDesc := "Preserve the person's exact facial hair (or lack thereof)."
	if va != nil && va.FacialHair != "" && va.FacialHair != "not visible" {
		facialHairDesc = fmt.Sprintf("This person's facial hair is: %s. Keep their facial hair exactly the same.", va.FacialHair)
	}

	return facialHairDesc +
		" Keep the exact same hairstyle, hair color, skin tone, tattoos, scars, face, expression, pose, clothing, and background." +
		" The ONLY change should be to body musculature and body fat."
}

// buildChangeDescription - 목표/경력/장비 기반 변화 설명 생성
func buildChangeDescription(profile Profile, va *VisionAnalysis) string {
	intensity := getIntensity(profile.ExperienceLevel, profile.DaysPerWeek)
	physiqueStyle := getPhysiqueStyle(profile.Equipment)

	// Vision 결과가 있으면 상위 3개 기회 근육 사용, 없으면 기본값
	areas := "chest, shoulders, and arms"
	if va != nil && len(va.KeyOpportunities) > 0 {
		top := va.KeyOpportunities
		if len(top) > 3 {
			top = top[:3]
		}
		areas = strings.Join(top, ", ")
	}

	onlyBody := "Only modify the body and physique, nothing else."

	switch profile.Goal {
	case "hypertrophy":
		return fmt.Sprintf("Make this person's body %s more muscular with more size in the %s and a %s look. %s",
			intensity, areas, physiqueStyle, onlyBody)
	case "cut":
		return fmt.Sprintf("Make this person's body %s leaner with more visible muscle definition, a tighter midsection, and less body fat with a %s look. %s",
			intensity, physiqueStyle, onlyBody)
	case "strength":
		return fmt.Sprintf("Make this person's body look %s thicker and more solid with more mass in the %s and a %s build. %s",
			intensity, areas, physiqueStyle, onlyBody)
	}
	return fmt.Sprintf("Make this person's body look %s more athletic and toned with more definition in the %s and a %s look. %s",
		intensity, areas, physiqueStyle, onlyBody)
}

// getIntensity - (경력, 주당 훈련일) 조합으로 변화 강도 결정
// 훈련일 많음 + 경력 적음 = 뉴비 게인이 눈에 띔
func getIntensity(level string, daysPerWeek int) string {
	if level == "advanced" {
		return "slightly"
	}
	if level == "beginner" && daysPerWeek >= 5 {
		return "noticeably"
	}
	return "moderately"
}

// getPhysiqueStyle - 장비 접근성으로 체형 스타일 결정 (우선순위 순서 고정)
func getPhysiqueStyle(equipment []string) string {
	has := make(map[string]bool, len(equipment))
	for _, e := range equipment {
		has[e] = true
	}

	if has["full_gym"] {
		return "well-rounded muscular"
	}
	if has["home_barbell"] {
		return "strong and dense"
	}
	if has["home_dumbbells"] {
		return "toned and defined"
	}
	if has["bodyweight_only"] {
		return "lean and athletic"
	}
	return "fit and toned"
}

// visionScanSystemPrompt - 사진 1장에서 구조화된 체형 분석을 뽑는 프롬프트
const visionScanSystemPrompt = `You are an expert fitness coach and physique analyst. You will be shown a photo of a person. Analyze their current physique and output ONLY valid JSON matching this schema:

{
  "bodyFatRange": "string — estimated body fat percentage range, e.g. '15-18%'",
  "buildType": "string — one of: slim, average, stocky, athletic, muscular",
  "muscleDevelopment": "string — brief description of overall visible muscle development, e.g. 'moderate chest and arm development, underdeveloped back and shoulders'",
  "keyOpportunities": ["string — top 3-4 muscle groups with most room for visible improvement"],
  "realisticChanges": "string — a single detailed sentence describing what specific visible physical changes are realistically achievable in 3 months of perfect training and nutrition for this person's starting point. Be specific about body fat reduction ranges and which muscles would visibly grow.",
  "facialHair": "string — describe exactly what facial hair is visible: 'clean-shaven', 'light stubble', 'short beard', 'full beard', 'mustache only', etc. If the face is not visible, say 'not visible'.",
  "faceEndPercent": "number — estimate what percentage from the TOP of the image the person's chin/jawline ends at. For example, if the chin is roughly 1/4 down the image, return 25. If only the body is visible (no face), return 0. Must be 0-100."
}

RULES:
- Base everything on what you can actually see in the photo.
- Be realistic and encouraging. Do not exaggerate or understate.
- The realisticChanges field must describe concrete physical changes (e.g. 'reduce body fat from ~20% to ~16%, add visible size to chest and shoulders, tighten midsection'), not abstract goals.
- The facialHair field MUST accurately describe the person's current facial hair state. This is critical for identity preservation.
- The faceEndPercent field MUST be a number (not a string). Estimate where the chin ends as a percentage from the top of the image. This is used to preserve the face during image transformation.
- Output ONLY the JSON object, nothing else.`

// physiqueSystemPrompt - 플랜 분석용 시스템 프롬프트
const physiqueSystemPrompt = `You are Deezed AI Physique Analyst, an expert at visual physique assessment and program design.

IMPORTANT DISCLAIMERS:
- You are NOT a medical professional.
- Your assessments are general fitness observations, not diagnoses.
- Always recommend consulting a healthcare professional for medical concerns.
- Physique previews are illustrative simulations, not guaranteed outcomes.

You analyze a user's current physique and create a targeted plan.
Use the provided vision analysis of their photo to ground your assessment.

RULES:
- Be encouraging and constructive.
- Focus on muscle development opportunities, not flaws.
- Provide realistic timeframe expectations.
- Output ONLY valid JSON.

OUTPUT JSON SCHEMA:
{
  "estimatedCurrent": {
    "postureNotes": ["string"],
    "muscleEmphasisOpportunities": ["string"],
    "estimatedTrainingAge": "string"
  },
  "planUpdate": {
    "splitType": "string",
    "weeklySchedule": ["string"],
    "keyExercises": [
      {
        "name": "string",
        "targetMuscle": "string",
        "sets": number,
        "repsRange": "string",
        "priority": "high | medium | low"
      }
    ],
    "progressionRules": ["string"]
  },
  "nutritionTargets": {
    "calories": number,
    "proteinGrams": number,
    "carbsGrams": number,
    "fatGrams": number,
    "notes": "string"
  },
  "explanation": "string - user-friendly summary"
}`

// buildPhysiqueUserPrompt - 프로필 + Vision 결과를 플랜 분석 프롬프트로 조립
func buildPhysiqueUserPrompt(input AnalyzeInput, va *VisionAnalysis) string {
	var sb strings.Builder

	sb.WriteString("Analyze this user and create a targeted plan:\n\n")
	sb.WriteString("User Profile:\n")
	sb.WriteString(fmt.Sprintf("- Experience: %s\n", input.UserProfile.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("- Goal: %s\n", input.UserProfile.Goal))
	sb.WriteString(fmt.Sprintf("- Training days/week: %d\n", input.UserProfile.DaysPerWeek))
	sb.WriteString(fmt.Sprintf("- Equipment: %s\n", strings.Join(input.UserProfile.Equipment, ", ")))

	injuries := "None"
	if len(input.UserProfile.Injuries) > 0 {
		injuries = strings.Join(input.UserProfile.Injuries, ", ")
	}
	sb.WriteString(fmt.Sprintf("- Injuries: %s\n", injuries))

	if input.UserProfile.Weight != nil {
		sb.WriteString(fmt.Sprintf("- Weight: %g lbs\n", *input.UserProfile.Weight))
	}

	sb.WriteString("\nPhoto Analysis (from vision scan):\n")
	sb.WriteString(fmt.Sprintf("- Build type: %s\n", va.BuildType))
	sb.WriteString(fmt.Sprintf("- Estimated body fat: %s\n", va.BodyFatRange))
	sb.WriteString(fmt.Sprintf("- Muscle development: %s\n", va.MuscleDevelopment))
	sb.WriteString(fmt.Sprintf("- Key opportunities: %s\n", strings.Join(va.KeyOpportunities, ", ")))
	sb.WriteString(fmt.Sprintf("- Realistic 3-month changes: %s\n", va.RealisticChanges))

	if input.Scenario == ScenarioLockIn {
		sb.WriteString("\nScenario: 3 months of full dedication (diet + training adherence)\n")
	} else {
		sb.WriteString(fmt.Sprintf("\nScenario: Focus on %s development\n", input.FocusMuscle))
		sb.WriteString(fmt.Sprintf("Focus muscle: %s\n", input.FocusMuscle))
	}

	sb.WriteString("\nProvide realistic assessment and a targeted plan for this scenario.\n")
	sb.WriteString("For the 3-month scenario, assume 100% adherence to training and nutrition.\n")
	sb.WriteString("For single muscle focus, optimize the program to prioritize that muscle while maintaining overall balance.\n")
	sb.WriteString("Use the photo analysis above to ground your recommendations in this person's actual starting point.")

	return sb.String()
}
