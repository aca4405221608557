package physique

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImageURL(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   string
	}{
		{"bare string", `"https://cdn.example.com/out.png"`, "https://cdn.example.com/out.png"},
		{"url string field", `{"url": "https://cdn.example.com/obj.png"}`, "https://cdn.example.com/obj.png"},
		{"nested href", `{"url": {"href": "https://cdn.example.com/href.png"}}`, "https://cdn.example.com/href.png"},
		{"unknown shape falls back to raw", `12345`, "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractImageURL(json.RawMessage(tc.output)))
		})
	}
}

func TestIsSafetyRejection(t *testing.T) {
	assert.True(t, isSafetyRejection("Your input was flagged as sensitive content"))
	assert.True(t, isSafetyRejection("prediction failed with code E005"))
	assert.False(t, isSafetyRejection("rate limit exceeded"))
}

func TestGenerateSuccess(t *testing.T) {
	var gotPrefer string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pred-1",
			"status": "succeeded",
			"output": "https://cdn.example.com/result.png",
		})
	}))
	defer srv.Close()

	g := NewFluxKontextGeneratorWithBaseURL("test-token", srv.URL)
	out, err := g.Generate(context.Background(), GeneratorInput{
		SourceImageURL: "https://cdn.example.com/source.png",
		Scenario:       ScenarioLockIn,
		UserProfile:    Profile{Goal: "hypertrophy", ExperienceLevel: "beginner", DaysPerWeek: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/result.png", out.ImageURL)
	assert.Equal(t, "flux-kontext-pro", out.Metadata.Model)
	assert.False(t, out.Metadata.IsMock)
	assert.GreaterOrEqual(t, out.Metadata.ProcessingTimeMs, int64(0))

	assert.Equal(t, "wait", gotPrefer)

	input := gotBody["input"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/source.png", input["input_image"])
	assert.Equal(t, float64(5), input["safety_tolerance"])
	assert.Equal(t, "png", input["output_format"])
	assert.Equal(t, "match_input_image", input["aspect_ratio"])
	assert.NotEmpty(t, input["prompt"])
}

func TestGenerateSafetyRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"detail": "The input or output was flagged as sensitive. (E005)",
		})
	}))
	defer srv.Close()

	g := NewFluxKontextGeneratorWithBaseURL("test-token", srv.URL)
	_, err := g.Generate(context.Background(), GeneratorInput{SourceImageURL: "https://x/src.png"})

	require.ErrorIs(t, err, ErrSafetyRejected)
	assert.Contains(t, err.Error(), "neck or chin down")
}

func TestGenerateFailedPrediction(t *testing.T) {
	errMsg := "model overloaded"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pred-2",
			"status": "failed",
			"error":  errMsg,
		})
	}))
	defer srv.Close()

	g := NewFluxKontextGeneratorWithBaseURL("test-token", srv.URL)
	_, err := g.Generate(context.Background(), GeneratorInput{SourceImageURL: "https://x/src.png"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSafetyRejected)
	assert.Contains(t, err.Error(), errMsg)
}

func TestMockGenerator(t *testing.T) {
	g := NewMockGenerator()
	out, err := g.Generate(context.Background(), GeneratorInput{Scenario: ScenarioLockIn})
	require.NoError(t, err)

	assert.True(t, out.Metadata.IsMock)
	assert.Equal(t, "mock", out.Metadata.Model)
	assert.NotEmpty(t, out.ImageURL)
}
