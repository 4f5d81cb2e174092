package constants

import (
	"path/filepath"
	"strings"
)

// Ekstensi foto yang diterima untuk bukti periksa kamar.
func IsImageExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	default:
		return false
	}
}
