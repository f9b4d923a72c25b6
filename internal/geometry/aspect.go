// Package geometry derives aspect ratios, display sizes and responsive
// breakpoints. All functions are pure.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAspectRatioToken reports an ar_ token that cannot be parsed.
var ErrInvalidAspectRatioToken = errors.New("invalid aspect ratio token")

const aspectRatioPrefix = "ar_"

// ResolveAspectRatio returns the aspect ratio requested by an ar_ token in
// tokens, or originalWidth/originalHeight when there is none. When several
// ar_ tokens are present the last one wins, as it does on the CDN.
//
// A malformed token yields the original ratio together with a wrapped
// ErrInvalidAspectRatioToken so the caller can log and carry on.
func ResolveAspectRatio(tokens []string, originalWidth, originalHeight float64) (float64, error) {
	original := 0.0
	if originalHeight > 0 {
		original = originalWidth / originalHeight
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		t := strings.TrimSpace(tokens[i])
		if !strings.HasPrefix(t, aspectRatioPrefix) {
			continue
		}
		ratio, err := ParseAspectRatio(strings.TrimPrefix(t, aspectRatioPrefix))
		if err != nil {
			return original, fmt.Errorf("%w: %q: %v", ErrInvalidAspectRatioToken, t, err)
		}
		return ratio, nil
	}
	return original, nil
}

// ParseAspectRatio parses "1.5" or "16:9".
func ParseAspectRatio(v string) (float64, error) {
	if w, h, ok := strings.Cut(v, ":"); ok {
		num, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return 0, fmt.Errorf("width: %w", err)
		}
		den, err := strconv.ParseFloat(h, 64)
		if err != nil {
			return 0, fmt.Errorf("height: %w", err)
		}
		if den == 0 {
			return 0, errors.New("zero denominator")
		}
		if num <= 0 || den < 0 {
			return 0, errors.New("ratio must be positive")
		}
		return num / den, nil
	}

	ratio, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if ratio <= 0 {
		return 0, errors.New("ratio must be positive")
	}
	return ratio, nil
}
