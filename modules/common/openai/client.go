package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrEmptyResponse - 모델이 빈 응답을 반환한 경우
var ErrEmptyResponse = errors.New("empty AI response")

// MalformedOutputError - 모델이 응답은 했지만 JSON 파싱/검증에 실패한 경우
// (빈 응답과 구분해서 상위 레이어가 "AI returned malformed data"로 처리)
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("AI returned malformed data: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// Malformed - 파싱/검증 에러를 MalformedOutputError로 감쌈
func Malformed(err error) error {
	return &MalformedOutputError{Err: err}
}

// IsMalformed - MalformedOutputError 여부 확인
func IsMalformed(err error) bool {
	var m *MalformedOutputError
	return errors.As(err, &m)
}

// Client - OpenAI Chat Completions 클라이언트
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient - OpenAI 클라이언트 생성
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClientWithBaseURL - 테스트/프록시용 base URL 지정 생성자
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

// CompletionRequest - 구조화된 JSON 출력 요청
// ImageURL이 있으면 저해상도 멀티모달 파트로 첨부 (vision 요청)
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	ImageURL     string
	Temperature  float64
	MaxTokens    int
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete - JSON 출력 모드로 채팅 완성 호출, raw 텍스트 반환
// 파싱/검증은 호출자 책임 (Malformed로 감싸서 전파할 것)
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = 4096
	}
	if req.Temperature == 0 {
		req.Temperature = 0.7
	}

	// User 메시지 구성 (이미지 있으면 멀티모달)
	var userContent interface{} = req.UserPrompt
	if req.ImageURL != "" {
		userContent = []contentPart{
			{Type: "text", Text: req.UserPrompt},
			{Type: "image_url", ImageURL: &imageURLPart{URL: req.ImageURL, Detail: "low"}},
		}
	}

	body := chatRequest{
		Model:          c.model,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: userContent},
		},
	}

	reqBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	log.Printf("🤖 Calling OpenAI (model: %s, vision: %v, maxTokens: %d)",
		c.model, req.ImageURL != "", req.MaxTokens)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("OpenAI API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	content := parsed.Choices[0].Message.Content
	log.Printf("✅ OpenAI response received: %d chars", len(content))
	return content, nil
}
