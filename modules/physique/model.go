package physique

import (
	"fmt"

	"deezed-physique-server/modules/common/utils"
)

// 시뮬레이션 시나리오
const (
	ScenarioLockIn      = "3_month_lock_in"
	ScenarioMuscleFocus = "single_muscle_focus"
)

// 이미지 결과 타입
const (
	ImageResultGenerated   = "generated"
	ImageResultMockPreview = "mock_preview"
)

// ValidScenarios - 허용되는 시나리오 목록
var ValidScenarios = map[string]bool{
	ScenarioLockIn:      true,
	ScenarioMuscleFocus: true,
}

// ValidMuscleGroups - 허용되는 근육 그룹
var ValidMuscleGroups = map[string]bool{
	"chest": true, "back": true, "shoulders": true,
	"biceps": true, "triceps": true, "quads": true,
	"hamstrings": true, "glutes": true, "calves": true,
	"abs": true, "forearms": true, "traps": true,
}

// FitnessDisclaimers - 모든 결과에 붙는 고정 면책 문구
var FitnessDisclaimers = []string{
	"This is AI-generated fitness guidance, not medical advice.",
	"Consult a healthcare professional before starting any new exercise program.",
	"Results vary based on genetics, consistency, nutrition, sleep, and other factors.",
	"The physique preview is an illustrative simulation, not a guaranteed outcome.",
	"We do not store, train on, or share your photos with third parties.",
}

// Profile - 파이프라인 입력용 사용자 프로필 (읽기 전용)
type Profile struct {
	ExperienceLevel string   `json:"experienceLevel"`
	Goal            string   `json:"goal"`
	DaysPerWeek     int      `json:"daysPerWeek"`
	Equipment       []string `json:"equipment"`
	Injuries        []string `json:"injuries"`
	Weight          *float64 `json:"weight,omitempty"`
}

// VisionAnalysis - Vision 스캔 1회 호출의 결과물
// faceEndPercent는 모델이 string으로 줄 수도 있어서 UntrustedNumber 사용
type VisionAnalysis struct {
	BodyFatRange      string                `json:"bodyFatRange"`
	BuildType         string                `json:"buildType"`
	MuscleDevelopment string                `json:"muscleDevelopment"`
	KeyOpportunities  []string              `json:"keyOpportunities"`
	RealisticChanges  string                `json:"realisticChanges"`
	FacialHair        string                `json:"facialHair"`
	FaceEndPercent    utils.UntrustedNumber `json:"faceEndPercent"`
}

// GeneratorInput - 이미지 생성기 입력
type GeneratorInput struct {
	SourceImageURL string
	Scenario       string
	FocusMuscle    string
	UserProfile    Profile
	VisionAnalysis *VisionAnalysis
}

// GeneratorMetadata - 생성 메타데이터
type GeneratorMetadata struct {
	Model            string `json:"model"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	IsMock           bool   `json:"isMock"`
}

// GeneratorOutput - 이미지 생성기 출력 (URL 하나로 정규화)
type GeneratorOutput struct {
	ImageURL string
	Metadata GeneratorMetadata
}

// EstimatedCurrent - 현재 상태 평가
type EstimatedCurrent struct {
	PostureNotes                []string `json:"postureNotes"`
	MuscleEmphasisOpportunities []string `json:"muscleEmphasisOpportunities"`
	EstimatedTrainingAge        string   `json:"estimatedTrainingAge"`
}

// KeyExercise - 추천 핵심 운동
type KeyExercise struct {
	Name         string `json:"name"`
	TargetMuscle string `json:"targetMuscle"`
	Sets         int    `json:"sets"`
	RepsRange    string `json:"repsRange"`
	Priority     string `json:"priority"` // high | medium | low
}

// PlanUpdate - 추천 플랜 업데이트
type PlanUpdate struct {
	SplitType        string        `json:"splitType"`
	WeeklySchedule   []string      `json:"weeklySchedule"`
	KeyExercises     []KeyExercise `json:"keyExercises"`
	ProgressionRules []string      `json:"progressionRules"`
}

// NutritionTargets - 영양 목표
// 숫자 필드는 "누락"과 "0"을 구분하기 위해 포인터 사용
type NutritionTargets struct {
	Calories     *float64 `json:"calories"`
	ProteinGrams *float64 `json:"proteinGrams"`
	CarbsGrams   *float64 `json:"carbsGrams"`
	FatGrams     *float64 `json:"fatGrams"`
	Notes        string   `json:"notes"`
}

// ImageResult - 최종 이미지 결과 envelope
type ImageResult struct {
	Type     string            `json:"type"` // generated | mock_preview
	URL      string            `json:"url"`
	Metadata GeneratorMetadata `json:"metadata"`
}

// AIOutput - 파이프라인 최종 결과물 (라우트 레이어가 그대로 저장/반환)
type AIOutput struct {
	EstimatedCurrent EstimatedCurrent `json:"estimatedCurrent"`
	Scenario         string           `json:"scenario"`
	PlanUpdate       PlanUpdate       `json:"planUpdate"`
	NutritionTargets NutritionTargets `json:"nutritionTargets"`
	ImageResult      ImageResult      `json:"imageResult"`
	Disclaimers      []string         `json:"disclaimers"`
	Explanation      string           `json:"explanation"`
}

// planAnalysis - 플랜 분석 호출이 돌려주는 부분 결과
type planAnalysis struct {
	EstimatedCurrent EstimatedCurrent `json:"estimatedCurrent"`
	PlanUpdate       PlanUpdate       `json:"planUpdate"`
	NutritionTargets NutritionTargets `json:"nutritionTargets"`
	Explanation      string           `json:"explanation"`
}

var validPriorities = map[string]bool{"high": true, "medium": true, "low": true}

// Validate - 최종 결과물 스키마 검증 (실패 시 전체 요청 실패, 부분 결과 반환 금지)
func (o *AIOutput) Validate() error {
	if !ValidScenarios[o.Scenario] {
		return fmt.Errorf("invalid scenario: %q", o.Scenario)
	}

	if o.EstimatedCurrent.EstimatedTrainingAge == "" {
		return fmt.Errorf("estimatedCurrent.estimatedTrainingAge is required")
	}

	if o.PlanUpdate.SplitType == "" {
		return fmt.Errorf("planUpdate.splitType is required")
	}
	if len(o.PlanUpdate.WeeklySchedule) == 0 {
		return fmt.Errorf("planUpdate.weeklySchedule is required")
	}
	if len(o.PlanUpdate.KeyExercises) == 0 {
		return fmt.Errorf("planUpdate.keyExercises is required")
	}
	for i, ex := range o.PlanUpdate.KeyExercises {
		if ex.Name == "" {
			return fmt.Errorf("planUpdate.keyExercises[%d].name is required", i)
		}
		if ex.Sets <= 0 {
			return fmt.Errorf("planUpdate.keyExercises[%d].sets must be positive", i)
		}
		if !validPriorities[ex.Priority] {
			return fmt.Errorf("planUpdate.keyExercises[%d].priority is invalid: %q", i, ex.Priority)
		}
	}

	if o.NutritionTargets.Calories == nil {
		return fmt.Errorf("nutritionTargets.calories is required")
	}
	if o.NutritionTargets.ProteinGrams == nil {
		return fmt.Errorf("nutritionTargets.proteinGrams is required")
	}
	if o.NutritionTargets.CarbsGrams == nil {
		return fmt.Errorf("nutritionTargets.carbsGrams is required")
	}
	if o.NutritionTargets.FatGrams == nil {
		return fmt.Errorf("nutritionTargets.fatGrams is required")
	}

	if o.ImageResult.Type != ImageResultGenerated && o.ImageResult.Type != ImageResultMockPreview {
		return fmt.Errorf("imageResult.type is invalid: %q", o.ImageResult.Type)
	}
	if o.ImageResult.URL == "" {
		return fmt.Errorf("imageResult.url is required")
	}

	if len(o.Disclaimers) == 0 {
		return fmt.Errorf("disclaimers are required")
	}
	if o.Explanation == "" {
		return fmt.Errorf("explanation is required")
	}

	return nil
}
