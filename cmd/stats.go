package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/imgcdn-cli/internal/manifest"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a resolved manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.Read(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

// manifestPath accepts a manifest file or the directory holding one.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	if t, err := time.Parse(time.RFC3339, m.GeneratedAt); err == nil {
		fmt.Printf("  Generated:        %s (%s)\n", m.GeneratedAt, humanize.Time(t))
	} else {
		fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	}
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if m.Account != "" {
		fmt.Printf("  Account:          %s\n", m.Account)
	}
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		if m.BuildInfo.CacheSize > 0 {
			fmt.Printf("  Fetch cache:      %d entries\n", m.BuildInfo.CacheSize)
		} else {
			fmt.Printf("  Fetch cache:      unbounded\n")
		}
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Sources:          %d\n", s.TotalSources)
	fmt.Printf("  Images:           %d\n", s.TotalImages)
	fmt.Printf("  Skipped:          %d\n", s.Skipped)
	fmt.Printf("  Candidates:       %d\n", s.TotalCandidates)
	fmt.Printf("  Fetches:          %s\n", humanize.Comma(s.Fetches))
	fmt.Println()

	// Per-layout breakdown.
	layouts := map[string]int{}
	for _, img := range m.Images {
		layouts[string(img.Layout)]++
	}
	fmt.Println("  Layout breakdown:")
	for _, l := range []string{"fixed", "fluid"} {
		if n, ok := layouts[l]; ok {
			fmt.Printf("    %-6s  %4d images\n", l, n)
		}
	}
	fmt.Println()

	// Per-width breakdown.
	widthStats := map[int]int{}
	for _, img := range m.Images {
		for _, e := range img.Entries {
			widthStats[e.Width]++
		}
	}
	var widths []int
	for w := range widthStats {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	fmt.Println("  Width breakdown:")
	for _, w := range widths {
		fmt.Printf("    %5dpx  %4d candidates\n", w, widthStats[w])
	}
	fmt.Println()

	fmt.Printf("  Placeholder coverage: %d / %d images\n", s.Placeholders, len(m.Images))

	var warnings []string
	for key, img := range m.Images {
		if len(img.Entries) == 0 {
			warnings = append(warnings, fmt.Sprintf("image %q has no candidates", key))
		}
		if img.Layout == "fluid" && len(img.Entries) == 1 {
			warnings = append(warnings, fmt.Sprintf("image %q is fluid with a single breakpoint", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
