package cdnurl

import (
	"strconv"
	"strings"
)

// WidthToken returns the w_<n> sizing token.
func WidthToken(w int) string { return "w_" + strconv.Itoa(w) }

// HeightToken returns the h_<n> sizing token.
func HeightToken(h int) string { return "h_" + strconv.Itoa(h) }

// WithSize returns a copy of tokens with every existing width/height token
// removed and the given sizes appended last. A zero size is not emitted.
//
// Generated sizes always replace caller-supplied ones; the URL never carries
// two competing w_ (or h_) tokens in one group.
func WithSize(tokens []string, w, h int) []string {
	out := make([]string, 0, len(tokens)+2)
	for _, t := range tokens {
		if isSizeToken(t) {
			continue
		}
		out = append(out, t)
	}
	if w > 0 {
		out = append(out, WidthToken(w))
	}
	if h > 0 {
		out = append(out, HeightToken(h))
	}
	return out
}

// SplitTokens splits a comma separated transformation group into tokens,
// dropping blanks. "c_fill, g_auto" yields [c_fill g_auto].
func SplitTokens(group string) []string {
	var out []string
	for _, t := range strings.Split(group, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isSizeToken(t string) bool {
	t = strings.TrimSpace(t)
	return strings.HasPrefix(t, "w_") || strings.HasPrefix(t, "h_")
}

// WithoutPrefix returns a copy of tokens without those starting with prefix.
func WithoutPrefix(tokens []string, prefix string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !strings.HasPrefix(strings.TrimSpace(t), prefix) {
			out = append(out, t)
		}
	}
	return out
}
