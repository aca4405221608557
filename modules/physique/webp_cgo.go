//go:build cgo

package physique

import (
	_ "github.com/kolesa-team/go-webp/decoder" // webp 디코더 등록 (cgo 필요)
)
