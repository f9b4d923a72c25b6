package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/imgcdn-cli/internal/fieldmap"
	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
	"github.com/AnyUserName/imgcdn-cli/internal/manifest"
	"github.com/AnyUserName/imgcdn-cli/internal/pipeline"
	"github.com/AnyUserName/imgcdn-cli/internal/placeholder"
	"github.com/AnyUserName/imgcdn-cli/internal/profile"
	"github.com/AnyUserName/imgcdn-cli/internal/srcset"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	resolveOut             string
	resolveProfile         string
	resolveAccount         string
	resolveWorkers         int
	resolveUploads         bool
	resolvePrint           bool
	resolveLayout          string
	resolveWidth           int
	resolveHeight          int
	resolveMaxWidth        int
	resolveAspectRatio     float64
	resolveFormat          string
	resolvePlaceholder     string
	resolveTransformations []string
	resolveBreakpoints     []int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <sources>",
	Short: "Resolve asset references into responsive image data + manifest",
	Long: `Reads asset references from a YAML/JSON file or every such file under a
directory, resolves each into src/srcset/sizes and an optional placeholder,
and writes imgcdn.manifest.json.

A source file is either a list of source objects or a mapping with a
"query" block and a "sources" list. Source fields are read through the
"fields" mapping of the config (defaults: cloudName, publicId,
originalWidth, originalHeight, originalFormat, defaultBase64, ...).

With --uploads the argument is a JSON file of upload results instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.StringVarP(&resolveOut, "out", "o", ".", "manifest output directory")
	f.StringVarP(&resolveProfile, "profile", "p", "",
		"sizing profile when no --config is given ("+strings.Join(profile.Names(), ", ")+")")
	f.StringVar(&resolveAccount, "account", "", "account for sources that carry none (overrides config)")
	f.IntVarP(&resolveWorkers, "workers", "w", 0, "parallel workers (0 = config or NumCPU)")
	f.BoolVar(&resolveUploads, "uploads", false, "read upload results JSON instead of source files")
	f.BoolVar(&resolvePrint, "print", false, "print the manifest to stdout instead of a report")
	f.StringVarP(&resolveLayout, "layout", "l", "fixed", "layout: fixed, fluid (constrained, fullWidth)")
	f.IntVar(&resolveWidth, "width", 0, "requested width")
	f.IntVar(&resolveHeight, "height", 0, "requested height")
	f.IntVar(&resolveMaxWidth, "max-width", 0, "fluid: largest breakpoint")
	f.Float64Var(&resolveAspectRatio, "aspect-ratio", 0, "target aspect ratio (width/height)")
	f.StringVarP(&resolveFormat, "format", "f", "", "output format token, e.g. auto, webp")
	f.StringVar(&resolvePlaceholder, "placeholder", "", "placeholder: blurred, tracedSVG, dominantColor")
	f.StringSliceVarP(&resolveTransformations, "transformations", "t", nil, "primary transformation tokens (overrides config)")
	f.IntSliceVar(&resolveBreakpoints, "breakpoints", nil, "explicit fluid breakpoints")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	start := time.Now()
	logger := newLogger()

	opts, err := loadOptions(resolveProfile)
	if err != nil {
		return err
	}
	if resolveAccount != "" {
		opts.Account = resolveAccount
	}
	if resolveWorkers > 0 {
		opts.Workers = resolveWorkers
	}

	query, err := resolveQuery(cmd)
	if err != nil {
		return err
	}

	var items []pipeline.Item
	if resolveUploads {
		items, err = pipeline.LoadUploads(args[0], opts.Account)
	} else {
		var fields *fieldmap.Mapping
		fields, err = fieldmap.New(opts.Fields, nil)
		if err != nil {
			return fmt.Errorf("fields: %w", err)
		}
		items, err = pipeline.ScanSources(args[0], fields)
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	logger.Debug("loaded sources", "path", args[0], "count", len(items), "profile", opts.Profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resolver, cache := newResolver(opts, logger)
	p := pipeline.New(resolver, pipeline.Config{
		Profile:   opts.Profile,
		Account:   opts.Account,
		Workers:   opts.Workers,
		CacheSize: opts.Cache.Size,
		Query:     query,
	}, logger)

	m, err := p.Run(ctx, items)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	m.Stats.Fetches = cache.Fetches()
	logger.Debug("fetch cache", "fetches", m.Stats.Fetches, "entries", cache.Len())

	if resolvePrint {
		m.ComputeStats()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	absOut, err := filepath.Abs(resolveOut)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	manifestPath := filepath.Join(absOut, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printResolveReport(m, manifestPath, time.Since(start))
	return nil
}

// resolveQuery builds the run-wide query from flags. Transformations stay
// nil unless the flag was given, so config defaults apply.
func resolveQuery(cmd *cobra.Command) (imagedata.Query, error) {
	layout, err := srcset.ParseLayout(resolveLayout)
	if err != nil {
		return imagedata.Query{}, err
	}
	kind, err := placeholder.ParseKind(resolvePlaceholder)
	if err != nil {
		return imagedata.Query{}, err
	}
	q := imagedata.Query{
		Layout:      layout,
		Width:       resolveWidth,
		Height:      resolveHeight,
		MaxWidth:    resolveMaxWidth,
		AspectRatio: resolveAspectRatio,
		Format:      resolveFormat,
		Placeholder: kind,
		Breakpoints: resolveBreakpoints,
	}
	if cmd.Flags().Changed("transformations") {
		q.Transformations = append([]string{}, resolveTransformations...)
	}
	return q, nil
}

func printResolveReport(m *manifest.Manifest, manifestPath string, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             imgcdn resolve complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Sources:      %d\n", s.TotalSources)
	fmt.Printf("  Images:       %d\n", s.TotalImages)
	if s.Skipped > 0 {
		fmt.Printf("  Skipped:      %d (no identity or metadata)\n", s.Skipped)
	}
	fmt.Printf("  Candidates:   %d\n", s.TotalCandidates)
	fmt.Printf("  Placeholders: %d\n", s.Placeholders)
	fmt.Printf("  Fetches:      %d\n", s.Fetches)
	fmt.Printf("  Time:         %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:      %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Widest srcsets first.
	if len(m.Images) > 0 {
		keys := make([]string, 0, len(m.Images))
		for k := range m.Images {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := m.Images[keys[i]], m.Images[keys[j]]
			if len(a.Entries) != len(b.Entries) {
				return len(a.Entries) > len(b.Entries)
			}
			return keys[i] < keys[j]
		})
		n := min(len(keys), 10)
		fmt.Printf("  Top %d by candidates:\n", n)
		for _, k := range keys[:n] {
			img := m.Images[k]
			fmt.Printf("    %-40s %-6s %2d  %s\n", truncKey(k, 40), img.Layout, len(img.Entries), describeWidths(img))
		}
		fmt.Println()
	}

	info, err := os.Stat(manifestPath)
	if err == nil {
		fmt.Printf("  Manifest:     %s (%s)\n", manifestPath, humanize.Bytes(uint64(info.Size())))
		fmt.Println()
	}
}

func describeWidths(img imagedata.ImageData) string {
	parts := make([]string, len(img.Entries))
	for i, e := range img.Entries {
		parts[i] = fmt.Sprint(e.Width)
	}
	return strings.Join(parts, " ")
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
