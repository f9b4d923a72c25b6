package cmd

import (
	"context"
	"log/slog"
	"testing"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/config"
	"github.com/AnyUserName/imgcdn-cli/internal/fetchcache"
	"github.com/AnyUserName/imgcdn-cli/internal/imagedata"
	"github.com/AnyUserName/imgcdn-cli/internal/manifest"
	"github.com/AnyUserName/imgcdn-cli/internal/srcset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	opts := config.Default("")
	cache := fetchcache.New(fetchcache.FetcherFunc(nil), opts.Cache, slog.New(slog.DiscardHandler))
	r := imagedata.NewResolver(opts, cache, slog.New(slog.DiscardHandler))

	src := imagedata.Source{
		Identity: cdnurl.Identity{Account: "acct1", PublicID: "pic"},
		Metadata: imagedata.Metadata{Width: 1920, Height: 1080, Format: "jpg"},
	}
	m := manifest.New("default")
	for key, q := range map[string]imagedata.Query{
		"fixed": {Width: 300},
		"fluid": {Layout: srcset.Fluid},
	} {
		data, err := r.Resolve(context.Background(), src, q)
		require.NoError(t, err)
		m.Images[key] = *data
	}
	m.ComputeStats()
	return m
}

func TestValidateManifest_Valid(t *testing.T) {
	assert.Empty(t, validateManifest(resolvedManifest(t)))
}

func TestValidateManifest_Errors(t *testing.T) {
	m := resolvedManifest(t)

	fixed := m.Images["fixed"]
	fixed.Src = "https://example.com/other"
	m.Images["fixed"] = fixed

	fluid := m.Images["fluid"]
	fluid.Entries = append([]srcset.Entry(nil), fluid.Entries...)
	fluid.Entries[0], fluid.Entries[1] = fluid.Entries[1], fluid.Entries[0]
	fluid.Sizes = ""
	m.Images["fluid"] = fluid

	m.Images["empty"] = imagedata.ImageData{Layout: srcset.Fixed, AspectRatio: 1}

	errs := validateManifest(m)
	assert.Contains(t, errs, `image "fixed": src is not the 1x candidate`)
	assert.Contains(t, errs, `image "fluid": srcset does not match its entries`)
	assert.Contains(t, errs, `image "fluid" entry[1]: widths not ascending`)
	assert.Contains(t, errs, `image "fluid": missing sizes`)
	assert.Contains(t, errs, `image "empty": no candidates`)
	assert.Contains(t, errs, "stats.total_images mismatch: 2 != 3")
}

func TestLoadOptions_Profile(t *testing.T) {
	opts, err := loadOptions("hq")
	require.NoError(t, err)
	assert.Equal(t, "hq", opts.Profile)

	_, err = loadOptions("blog")
	assert.ErrorContains(t, err, `unknown profile "blog"`)
}
