package moderation

import (
	"context"
	"log"
)

// MaxUploadBytes - 업로드 허용 최대 크기 (10MB)
const MaxUploadBytes = 10 * 1024 * 1024

// allowedContentTypes - 업로드 허용 이미지 타입
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ModerationResult - 이미지 콘텐츠 검수 결과
type ModerationResult struct {
	Approved   bool     `json:"approved"`
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
}

// ValidateContentType - 업로드 전 content type 검증
func ValidateContentType(contentType string) bool {
	return allowedContentTypes[contentType]
}

// ValidateFileSize - 업로드 전 파일 크기 검증
func ValidateFileSize(sizeBytes int64) bool {
	return sizeBytes > 0 && sizeBytes <= MaxUploadBytes
}

// CheckImageContent - 업로드된 이미지 콘텐츠 검수
// MVP는 통과 처리. 프로덕션에서는 vision 기반 검수로 교체 예정
// (미성년자 감지, 노출 수위, 비인물 사진 필터링)
func CheckImageContent(ctx context.Context, storageKey string) (*ModerationResult, error) {
	log.Printf("🔍 Moderation check for %s (pass-through)", storageKey)

	return &ModerationResult{
		Approved:   true,
		Reasons:    []string{},
		Confidence: 1.0,
	}, nil
}
