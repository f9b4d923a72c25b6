package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/manifest"
	"github.com/AnyUserName/imgcdn-cli/internal/srcset"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_manifest>",
	Short: "Validate an imgcdn manifest and the consistency of its image data",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.Read(path)
	if err != nil {
		return err
	}

	errs := validateManifest(m)
	if len(errs) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d images, %d candidates\n", m.Stats.TotalImages, m.Stats.TotalCandidates)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	candidates := 0
	for _, key := range keys {
		img := m.Images[key]
		candidates += len(img.Entries)

		if img.AspectRatio <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid aspect ratio %.4f", key, img.AspectRatio))
		}
		if len(img.Entries) == 0 {
			errs = append(errs, fmt.Sprintf("image %q: no candidates", key))
			continue
		}
		if img.SrcSet != srcset.Join(img.Entries) {
			errs = append(errs, fmt.Sprintf("image %q: srcset does not match its entries", key))
		}

		seen := map[string]bool{}
		for i, e := range img.Entries {
			if e.Width <= 0 {
				errs = append(errs, fmt.Sprintf("image %q entry[%d]: invalid width %d", key, i, e.Width))
			}
			if !strings.HasPrefix(e.URL, "http://") && !strings.HasPrefix(e.URL, "https://") {
				errs = append(errs, fmt.Sprintf("image %q entry[%d]: not an absolute URL", key, i))
			}
			if seen[e.URL] {
				errs = append(errs, fmt.Sprintf("image %q entry[%d]: duplicate URL", key, i))
			}
			seen[e.URL] = true
			if i > 0 && e.Width <= img.Entries[i-1].Width {
				errs = append(errs, fmt.Sprintf("image %q entry[%d]: widths not ascending", key, i))
			}
		}

		switch img.Layout {
		case srcset.Fixed:
			if img.Width <= 0 || img.Height <= 0 {
				errs = append(errs, fmt.Sprintf("image %q: invalid dimensions %dx%d", key, img.Width, img.Height))
			}
			if img.Src != img.Entries[0].URL {
				errs = append(errs, fmt.Sprintf("image %q: src is not the 1x candidate", key))
			}
		case srcset.Fluid:
			if img.PresentationWidth <= 0 || img.PresentationHeight <= 0 {
				errs = append(errs, fmt.Sprintf("image %q: invalid presentation size %dx%d",
					key, img.PresentationWidth, img.PresentationHeight))
			}
			if img.Src != img.Entries[len(img.Entries)-1].URL {
				errs = append(errs, fmt.Sprintf("image %q: src is not the largest breakpoint", key))
			}
			if img.Sizes == "" {
				errs = append(errs, fmt.Sprintf("image %q: missing sizes", key))
			}
		default:
			errs = append(errs, fmt.Sprintf("image %q: unknown layout %q", key, img.Layout))
		}
	}

	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", m.Stats.TotalImages, len(m.Images)))
	}
	if m.Stats.TotalCandidates != candidates {
		errs = append(errs, fmt.Sprintf("stats.total_candidates mismatch: %d != %d", m.Stats.TotalCandidates, candidates))
	}

	return errs
}
