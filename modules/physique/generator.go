package physique

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	replicateBaseURL = "https://api.replicate.com/v1"
	fluxModel        = "black-forest-labs/flux-kontext-pro"
)

// ErrSafetyRejected - 이미지 provider의 안전 필터 거부
// 얼굴 없는 사진은 거부 확률이 훨씬 낮아서 재촬영 가이드를 그대로 노출
var ErrSafetyRejected = errors.New(
	"Your photo was flagged by the image safety filter. Try using a photo from the neck or chin down — photos without faces are much less likely to be flagged.")

// FluxKontextGenerator - Replicate FLUX Kontext Pro 이미지 생성기
type FluxKontextGenerator struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

// NewFluxKontextGenerator - 생성기 생성
func NewFluxKontextGenerator(apiToken string) *FluxKontextGenerator {
	return &FluxKontextGenerator{
		apiToken:   apiToken,
		baseURL:    replicateBaseURL,
		httpClient: &http.Client{Timeout: 300 * time.Second},
	}
}

// NewFluxKontextGeneratorWithBaseURL - 테스트용 base URL 지정 생성자
func NewFluxKontextGeneratorWithBaseURL(apiToken, baseURL string) *FluxKontextGenerator {
	g := NewFluxKontextGenerator(apiToken)
	g.baseURL = baseURL
	return g
}

type predictionRequest struct {
	Input map[string]interface{} `json:"input"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  *string         `json:"error"`
	Detail string          `json:"detail"`
}

// Generate - FLUX Kontext Pro 1회 호출 (재시도 없음)
func (g *FluxKontextGenerator) Generate(ctx context.Context, input GeneratorInput) (*GeneratorOutput, error) {
	start := time.Now()

	prompt := BuildPrompt(input)
	log.Printf("🎨 Calling Replicate (%s) with prompt length: %d", fluxModel, len(prompt))

	reqBody, err := json.Marshal(predictionRequest{
		Input: map[string]interface{}{
			"prompt":           prompt,
			"input_image":      input.SourceImageURL,
			"safety_tolerance": 5,
			"output_format":    "png",
			"aspect_ratio":     "match_input_image",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s/predictions", g.baseURL, fluxModel)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "wait") // 완료까지 블로킹

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Replicate request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Replicate response: %w", err)
	}

	var prediction predictionResponse
	if err := json.Unmarshal(respBody, &prediction); err != nil {
		return nil, fmt.Errorf("failed to parse Replicate response (status %d): %w", resp.StatusCode, err)
	}

	// 에러 메시지 취합 (provider가 detail 또는 error에 담아줌)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || prediction.Status == "failed" {
		errMsg := prediction.Detail
		if prediction.Error != nil && *prediction.Error != "" {
			errMsg = *prediction.Error
		}
		if errMsg == "" {
			errMsg = string(respBody)
		}
		if isSafetyRejection(errMsg) {
			log.Printf("⚠️  Image flagged by safety filter: %s", errMsg)
			return nil, ErrSafetyRejected
		}
		return nil, fmt.Errorf("Replicate prediction failed (status %d): %s", resp.StatusCode, errMsg)
	}

	imageURL := extractImageURL(prediction.Output)
	log.Printf("✅ Image generated: %s (%.1fs)", imageURL, time.Since(start).Seconds())

	return &GeneratorOutput{
		ImageURL: imageURL,
		Metadata: GeneratorMetadata{
			Model:            "flux-kontext-pro",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			IsMock:           false,
		},
	}, nil
}

// isSafetyRejection - provider의 안전 필터 거부 에러인지 확인
func isSafetyRejection(msg string) bool {
	return strings.Contains(msg, "flagged as sensitive") || strings.Contains(msg, "E005")
}

// outputExtractors - provider 응답 shape가 버전마다 달라서 순서대로 시도
// (bare string → {"url": "..."} → {"url": {"href": "..."}})
var outputExtractors = []func(json.RawMessage) (string, bool){
	extractBareString,
	extractURLString,
	extractURLHref,
}

// extractImageURL - 응답에서 이미지 URL 추출, 전부 실패하면 raw 문자열화
func extractImageURL(output json.RawMessage) string {
	for _, extract := range outputExtractors {
		if url, ok := extract(output); ok {
			return url
		}
	}
	return strings.TrimSpace(string(output))
}

func extractBareString(output json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(output, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func extractURLString(output json.RawMessage) (string, bool) {
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(output, &obj); err != nil || obj.URL == "" {
		return "", false
	}
	return obj.URL, true
}

func extractURLHref(output json.RawMessage) (string, bool) {
	var obj struct {
		URL struct {
			Href string `json:"href"`
		} `json:"url"`
	}
	if err := json.Unmarshal(output, &obj); err != nil || obj.URL.Href == "" {
		return "", false
	}
	return obj.URL.Href, true
}
