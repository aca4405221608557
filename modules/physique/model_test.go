package physique

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOutput() *AIOutput {
	calories := 2500.0
	protein := 180.0
	carbs := 250.0
	fat := 80.0

	return &AIOutput{
		EstimatedCurrent: EstimatedCurrent{
			EstimatedTrainingAge: "1-2 years",
		},
		Scenario: ScenarioLockIn,
		PlanUpdate: PlanUpdate{
			SplitType:      "push/pull/legs",
			WeeklySchedule: []string{"Mon: Push", "Tue: Pull", "Wed: Legs"},
			KeyExercises: []KeyExercise{
				{Name: "Bench Press", TargetMuscle: "chest", Sets: 4, RepsRange: "6-10", Priority: "high"},
			},
		},
		NutritionTargets: NutritionTargets{
			Calories:     &calories,
			ProteinGrams: &protein,
			CarbsGrams:   &carbs,
			FatGrams:     &fat,
		},
		ImageResult: ImageResult{
			Type: ImageResultGenerated,
			URL:  "https://cdn/result.png",
		},
		Disclaimers: FitnessDisclaimers,
		Explanation: "solid starting point",
	}
}

func TestValidateAcceptsCompleteOutput(t *testing.T) {
	require.NoError(t, validOutput().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(o *AIOutput)
		wantErr string
	}{
		{"invalid scenario", func(o *AIOutput) { o.Scenario = "overnight_transformation" }, "scenario"},
		{"missing training age", func(o *AIOutput) { o.EstimatedCurrent.EstimatedTrainingAge = "" }, "estimatedTrainingAge"},
		{"missing split type", func(o *AIOutput) { o.PlanUpdate.SplitType = "" }, "splitType"},
		{"empty schedule", func(o *AIOutput) { o.PlanUpdate.WeeklySchedule = nil }, "weeklySchedule"},
		{"empty exercises", func(o *AIOutput) { o.PlanUpdate.KeyExercises = nil }, "keyExercises"},
		{"exercise without name", func(o *AIOutput) { o.PlanUpdate.KeyExercises[0].Name = "" }, "name"},
		{"exercise with zero sets", func(o *AIOutput) { o.PlanUpdate.KeyExercises[0].Sets = 0 }, "sets"},
		{"exercise with bad priority", func(o *AIOutput) { o.PlanUpdate.KeyExercises[0].Priority = "urgent" }, "priority"},
		{"missing calories", func(o *AIOutput) { o.NutritionTargets.Calories = nil }, "calories"},
		{"missing protein", func(o *AIOutput) { o.NutritionTargets.ProteinGrams = nil }, "proteinGrams"},
		{"missing carbs", func(o *AIOutput) { o.NutritionTargets.CarbsGrams = nil }, "carbsGrams"},
		{"missing fat", func(o *AIOutput) { o.NutritionTargets.FatGrams = nil }, "fatGrams"},
		{"bad image type", func(o *AIOutput) { o.ImageResult.Type = "rendered" }, "imageResult.type"},
		{"missing image url", func(o *AIOutput) { o.ImageResult.URL = "" }, "imageResult.url"},
		{"missing disclaimers", func(o *AIOutput) { o.Disclaimers = nil }, "disclaimers"},
		{"missing explanation", func(o *AIOutput) { o.Explanation = "" }, "explanation"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOutput()
			tc.mutate(o)
			err := o.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateAcceptsMockPreview(t *testing.T) {
	o := validOutput()
	o.ImageResult.Type = ImageResultMockPreview
	assert.NoError(t, o.Validate())
}

// 영양 목표 0은 "누락"이 아니라 유효한 값
func TestValidateAcceptsZeroNutrition(t *testing.T) {
	o := validOutput()
	zero := 0.0
	o.NutritionTargets.FatGrams = &zero
	assert.NoError(t, o.Validate())
}

func TestVisionAnalysisDecodesStringFaceEndPercent(t *testing.T) {
	var va VisionAnalysis
	raw := `{"bodyFatRange": "15-18%", "faceEndPercent": "25"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &va))
	assert.Equal(t, 25.0, va.FaceEndPercent.Float64())
}

func TestVisionAnalysisDecodesGarbageFaceEndPercent(t *testing.T) {
	var va VisionAnalysis
	raw := `{"faceEndPercent": "around a quarter down"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &va))
	assert.Equal(t, 0.0, va.FaceEndPercent.Float64())
}

func TestFitnessDisclaimersCount(t *testing.T) {
	assert.Len(t, FitnessDisclaimers, 5)
}
