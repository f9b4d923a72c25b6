// Package fieldmap extracts source fields from arbitrarily shaped objects.
//
// Each field is resolved once, at construction, to an Extractor: either a
// dotted key path into nested maps or a caller-supplied function. Lookups
// then apply the table uniformly.
package fieldmap

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field names understood by the resolver.
const (
	Account          = "account"
	PublicID         = "public_id"
	Version          = "version"
	Width            = "width"
	Height           = "height"
	Format           = "format"
	DefaultBase64    = "default_base64"
	DefaultTracedSVG = "default_traced_svg"
	DominantColor    = "dominant_color"
	Breakpoints      = "breakpoints"
)

// DefaultPaths are the key paths used for fields without an override.
var DefaultPaths = map[string]string{
	Account:          "cloudName",
	PublicID:         "publicId",
	Version:          "version",
	Width:            "originalWidth",
	Height:           "originalHeight",
	Format:           "originalFormat",
	DefaultBase64:    "defaultBase64",
	DefaultTracedSVG: "defaultTracedSVG",
	DominantColor:    "dominantColor",
	Breakpoints:      "breakpoints",
}

// Extractor pulls one value out of a raw source object.
type Extractor func(raw map[string]any) (any, bool)

// Mapping is the resolved field table.
type Mapping struct {
	extractors map[string]Extractor
}

// New builds a mapping from key-path overrides and function overrides.
// Functions win over paths for the same field. Unknown field names are an
// error.
func New(paths map[string]string, funcs map[string]Extractor) (*Mapping, error) {
	m := &Mapping{extractors: make(map[string]Extractor, len(DefaultPaths))}
	for field, path := range DefaultPaths {
		m.extractors[field] = Path(path)
	}
	for field, path := range paths {
		if _, ok := DefaultPaths[field]; !ok {
			return nil, fmt.Errorf("unknown field %q (known: %s)", field, strings.Join(knownFields(), ", "))
		}
		m.extractors[field] = Path(path)
	}
	for field, fn := range funcs {
		if _, ok := DefaultPaths[field]; !ok {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		m.extractors[field] = fn
	}
	return m, nil
}

// Default returns the mapping with DefaultPaths only.
func Default() *Mapping {
	m, _ := New(nil, nil)
	return m
}

// Path returns an extractor following a dotted key path through nested
// maps. "cloudinary.publicId" reads raw["cloudinary"]["publicId"].
func Path(path string) Extractor {
	keys := strings.Split(path, ".")
	return func(raw map[string]any) (any, bool) {
		var cur any = raw
		for _, k := range keys {
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = obj[k]; !ok || cur == nil {
				return nil, false
			}
		}
		return cur, true
	}
}

// String returns field as a string. Numbers are formatted.
func (m *Mapping) String(raw map[string]any, field string) string {
	v, ok := m.value(raw, field)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Int returns field as an int, 0 when absent or not numeric.
func (m *Mapping) Int(raw map[string]any, field string) int {
	v, ok := m.value(raw, field)
	if !ok {
		return 0
	}
	n, _ := toInt(v)
	return n
}

// Ints returns field as a list of ints, skipping non-numeric items.
// Items may be numbers or objects with a "width" key, the shape returned by
// responsive breakpoint computation at upload time.
func (m *Mapping) Ints(raw map[string]any, field string) []int {
	v, ok := m.value(raw, field)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			item = obj["width"]
		}
		if n, ok := toInt(item); ok {
			out = append(out, n)
		}
	}
	return out
}

func (m *Mapping) value(raw map[string]any, field string) (any, bool) {
	ex, ok := m.extractors[field]
	if !ok || raw == nil {
		return nil, false
	}
	return ex(raw)
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(math.Round(t)), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

func knownFields() []string {
	out := make([]string, 0, len(DefaultPaths))
	for f := range DefaultPaths {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
