package utils

import (
	"math"
	"strconv"
	"strings"
)

// UntrustedNumber - AI 모델이 number 또는 string으로 돌려주는 숫자 필드용 타입
// (예: faceEndPercent가 25 또는 "25"로 올 수 있음)
type UntrustedNumber float64

// UnmarshalJSON - 파싱 실패 시 에러 대신 0으로 처리
func (n *UntrustedNumber) UnmarshalJSON(data []byte) error {
	*n = UntrustedNumber(ParseUntrustedNumber(string(data)))
	return nil
}

// Float64 - float64로 변환
func (n UntrustedNumber) Float64() float64 {
	return float64(n)
}

// ParseUntrustedNumber - 신뢰할 수 없는 숫자 입력 파싱 (실패 시 0)
// 따옴표로 감싼 숫자, 공백, null, NaN/Inf 모두 0 또는 숫자로 정규화
func ParseUntrustedNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)

	if s == "" || s == "null" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	// NaN/Inf는 숫자로 취급하지 않음
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}
