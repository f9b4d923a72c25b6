// Package upload converts upload service results into resolvable sources.
// Uploading itself happens elsewhere; only the result shape lives here.
package upload

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
)

// Breakpoint is one width computed by the CDN at upload time.
type Breakpoint struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
}

// BreakpointSet is one responsive_breakpoints entry.
type BreakpointSet struct {
	Transformation string       `json:"transformation,omitempty"`
	Breakpoints    []Breakpoint `json:"breakpoints"`
}

// Result is the upload response.
type Result struct {
	PublicID              string          `json:"public_id"`
	Version               json.Number     `json:"version,omitempty"`
	Width                 int             `json:"width"`
	Height                int             `json:"height"`
	Format                string          `json:"format"`
	SecureURL             string          `json:"secure_url,omitempty"`
	ResponsiveBreakpoints []BreakpointSet `json:"responsive_breakpoints,omitempty"`
}

// Breakpoints returns the distinct widths of every breakpoint set,
// ascending.
func (r Result) Breakpoints() []int {
	seen := make(map[int]bool)
	var out []int
	for _, set := range r.ResponsiveBreakpoints {
		for _, bp := range set.Breakpoints {
			if bp.Width > 0 && !seen[bp.Width] {
				seen[bp.Width] = true
				out = append(out, bp.Width)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Source converts the result into a resolver source under account.
func (r Result) Source(account string) imagedata.Source {
	return imagedata.Source{
		Identity: cdnurl.Identity{
			Account:  account,
			PublicID: r.PublicID,
			Version:  r.Version.String(),
		},
		Metadata: imagedata.Metadata{
			Width:  r.Width,
			Height: r.Height,
			Format: r.Format,
		},
		Breakpoints: r.Breakpoints(),
	}
}

// ReadResults decodes a JSON array of results, or a single result object.
func ReadResults(r io.Reader) ([]Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload results: %w", err)
	}
	var list []Result
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var one Result
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("decode upload results: %w", err)
	}
	return []Result{one}, nil
}
