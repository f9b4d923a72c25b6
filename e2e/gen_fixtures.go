//go:build ignore

// gen_fixtures writes sample source and upload-result files for the
// resolve smoke test.
// Usage: go run gen_fixtures.go <output_dir> [account]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir> [account]")
		os.Exit(1)
	}
	dir := os.Args[1]
	account := "demo"
	if len(os.Args) > 2 {
		account = os.Args[2]
	}
	if err := os.MkdirAll(filepath.Join(dir, "posts"), 0o755); err != nil {
		fail(err)
	}

	// Banner, fluid with a blurred placeholder.
	writeYAML(filepath.Join(dir, "posts", "banner.yaml"), map[string]any{
		"query": map[string]any{"layout": "fluid", "max_width": 1200, "placeholder": "blurred"},
		"sources": []map[string]any{{
			"cloudName":      account,
			"publicId":       "samples/landscapes/beach-boat",
			"originalWidth":  1920,
			"originalHeight": 1280,
			"originalFormat": "jpg",
		}},
	})

	// Cards, fixed at 200 wide. Metadata is fetched for the last one.
	cards := make([]map[string]any, 0, 3)
	for i := 1; i <= 3; i++ {
		card := map[string]any{
			"key":       fmt.Sprintf("card-%d", i),
			"cloudName": account,
			"publicId":  fmt.Sprintf("samples/food/dessert-%d", i),
			"query":     map[string]any{"width": 200, "placeholder": "dominantColor"},
		}
		if i < 3 {
			card["originalWidth"] = 864
			card["originalHeight"] = 576
			card["originalFormat"] = "jpg"
		}
		cards = append(cards, card)
	}
	writeYAML(filepath.Join(dir, "cards.yaml"), cards)

	// A non-asset entry, skipped by the resolver.
	writeJSON(filepath.Join(dir, "misc.json"), []map[string]any{{"title": "no image here"}})

	// Upload results for --uploads.
	writeJSON(filepath.Join(dir, "uploads.json"), []map[string]any{{
		"public_id": "samples/logo",
		"version":   1712345678,
		"width":     512,
		"height":    512,
		"format":    "png",
		"responsive_breakpoints": []map[string]any{{
			"breakpoints": []map[string]any{{"width": 512, "height": 512}, {"width": 256, "height": 256}},
		}},
	}})

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 4 fixtures in %s\n", dir)
}

func writeYAML(path string, v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		fail(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(err)
	}
}

func writeJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "[gen_fixtures]", err)
	os.Exit(1)
}
