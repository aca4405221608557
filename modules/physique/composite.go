package physique

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log"
	"math"
	"net/http"

	_ "image/jpeg" // jpeg 디코더 등록
)

const defaultFaceEndPercent = 30.0

// clampFaceEndPercent - vision 모델이 준 얼굴 경계값 정제
// 범위 밖(NaN 포함)이면 안전한 기본값 30으로 대체
func clampFaceEndPercent(pct float64) float64 {
	if pct >= 5 && pct <= 70 {
		return pct
	}
	return defaultFaceEndPercent
}

// blendBounds - 합성 구간 경계 계산
// chinPx까지는 원본 그대로, 이후 5%는 여유 구간, 다음 6%에 걸쳐 선형 블렌딩
func blendBounds(faceEndPercent float64, height int) (chinPx, solidEnd, fadeEnd int) {
	pct := clampFaceEndPercent(faceEndPercent)

	chinPx = int(math.Round(pct / 100.0 * float64(height)))
	solidEnd = chinPx + int(math.Round(0.05*float64(height)))
	if solidEnd > height {
		solidEnd = height
	}
	fadeEnd = solidEnd + int(math.Round(0.06*float64(height)))
	if fadeEnd > height {
		fadeEnd = height
	}
	return chinPx, solidEnd, fadeEnd
}

// CompositePreserveFace - 원본 얼굴 영역을 생성 이미지 위에 합성
// 상단(얼굴)은 원본 픽셀 그대로, 경계 구간은 선형 블렌딩, 하단은 생성 이미지
func CompositePreserveFace(ctx context.Context, httpClient *http.Client, originalURL, generatedURL string, faceEndPercent float64) ([]byte, error) {
	log.Printf("🎨 Compositing face-preserved result (faceEnd: %.0f%%)", clampFaceEndPercent(faceEndPercent))

	originalBytes, err := fetchImageBytes(ctx, httpClient, originalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch original image: %w", err)
	}
	generatedBytes, err := fetchImageBytes(ctx, httpClient, generatedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}

	originalImg, _, err := image.Decode(bytes.NewReader(originalBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode original image: %w", err)
	}
	generatedImg, _, err := image.Decode(bytes.NewReader(generatedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	original := toRGBA(originalImg)
	width := original.Bounds().Dx()
	height := original.Bounds().Dy()

	// 생성 이미지를 원본 치수에 정확히 맞춤
	generated := toRGBA(generatedImg)
	if generated.Bounds().Dx() != width || generated.Bounds().Dy() != height {
		generated = resizeExact(generated, width, height)
	}

	_, solidEnd, fadeEnd := blendBounds(faceEndPercent, height)

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * 4

	for y := 0; y < height; y++ {
		origRow := original.Pix[y*original.Stride : y*original.Stride+rowBytes]
		genRow := generated.Pix[y*generated.Stride : y*generated.Stride+rowBytes]
		dstRow := result.Pix[y*result.Stride : y*result.Stride+rowBytes]

		switch {
		case y <= solidEnd:
			copy(dstRow, origRow)
		case y >= fadeEnd:
			copy(dstRow, genRow)
		default:
			w := 1.0 - float64(y-solidEnd)/float64(fadeEnd-solidEnd)
			for x := 0; x < width; x++ {
				i := x * 4
				dstRow[i] = uint8(math.Round(float64(origRow[i])*w + float64(genRow[i])*(1-w)))
				dstRow[i+1] = uint8(math.Round(float64(origRow[i+1])*w + float64(genRow[i+1])*(1-w)))
				dstRow[i+2] = uint8(math.Round(float64(origRow[i+2])*w + float64(genRow[i+2])*(1-w)))
				dstRow[i+3] = 255
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode composite: %w", err)
	}

	log.Printf("✅ Composite complete (%dx%d, %d bytes)", width, height, buf.Len())
	return buf.Bytes(), nil
}

// fetchImageBytes - URL에서 이미지 바이너리 다운로드
func fetchImageBytes(ctx context.Context, httpClient *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// toRGBA - 어떤 이미지 타입이든 stride가 보장되는 RGBA로 변환
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// resizeExact - nearest neighbor로 지정 치수에 정확히 맞춤 (비율 무시)
func resizeExact(src *image.RGBA, width, height int) *image.RGBA {
	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := y * srcH / height
		for x := 0; x < width; x++ {
			srcX := x * srcW / width
			si := srcY*src.Stride + srcX*4
			di := y*dst.Stride + x*4
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
