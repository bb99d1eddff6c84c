package pdf

import (
	"math"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLargeFileThresholdMB is the size above which documents are flagged as large.
const DefaultLargeFileThresholdMB = 50

// SizeInfo describes the on-disk size of a document.
type SizeInfo struct {
	Bytes             int64
	MB                float64
	RecommendChunking bool
}

// ValidatePath resolves path against the working directory and checks that it
// names an existing PDF file.
func ValidatePath(path string) (string, error) {
	const op = "ValidatePath"

	resolved := path
	if !filepath.IsAbs(resolved) {
		abs, err := filepath.Abs(resolved)
		if err != nil {
			return "", WrapError(op, err, "failed to resolve path")
		}
		resolved = abs
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", WrapError(op, ErrNotFound, resolved)
		}
		return "", WrapError(op, err, resolved)
	}

	if info.IsDir() || !strings.HasSuffix(strings.ToLower(resolved), ".pdf") {
		return "", WrapError(op, ErrNotAPDF, resolved)
	}

	return resolved, nil
}

// FileSize reports the size of the file at path, rounded to two decimals in MB.
func FileSize(path string, thresholdMB float64) (SizeInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SizeInfo{}, WrapError("FileSize", err, path)
	}
	if thresholdMB <= 0 {
		thresholdMB = DefaultLargeFileThresholdMB
	}

	mb := float64(info.Size()) / (1024 * 1024)
	return SizeInfo{
		Bytes:             info.Size(),
		MB:                math.Round(mb*100) / 100,
		RecommendChunking: mb > thresholdMB,
	}, nil
}
