package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/AnyUserName/imgcdn-cli/internal/fetchcache"
	"github.com/AnyUserName/imgcdn-cli/internal/placeholder"
	"github.com/AnyUserName/imgcdn-cli/internal/profile"
	"gopkg.in/yaml.v3"
)

// Options is the complete configuration, built once at startup and passed
// to every component. Nothing reads it through package state.
type Options struct {
	Account string `yaml:"account"`
	Profile string `yaml:"profile"`

	FluidMinWidth          int      `yaml:"fluid_min_width"`
	FluidMaxWidth          int      `yaml:"fluid_max_width"`
	BreakpointsMaxImages   int      `yaml:"breakpoints_max_images"`
	FixedWidth             int      `yaml:"fixed_width"`
	DefaultTransformations []string `yaml:"transformations"`

	Placeholder placeholder.Config `yaml:"placeholder"`

	Domain   cdnurl.Domain `yaml:"domain"`
	Insecure bool          `yaml:"insecure"`

	Cache fetchcache.Config     `yaml:"cache"`
	HTTP  fetchcache.HTTPConfig `yaml:"http"`

	Workers int `yaml:"workers"`

	// Fields maps source field names to keys (dotted paths) in raw source
	// objects, e.g. {"public_id": "cloudinary.publicId"}.
	Fields map[string]string `yaml:"fields"`
}

// Default returns the options of the named profile.
func Default(profileName string) Options {
	if profileName == "" {
		profileName = profile.DefaultName
	}
	p := profile.Get(profileName)
	return Options{
		Profile:                p.Name,
		FluidMinWidth:          p.FluidMinWidth,
		FluidMaxWidth:          p.FluidMaxWidth,
		BreakpointsMaxImages:   p.BreakpointsMaxImages,
		FixedWidth:             p.FixedWidth,
		DefaultTransformations: p.Transformations,
		Placeholder: placeholder.Config{
			Base64Width: p.Base64Width,
			Quality:     70,
			Traced: placeholder.TracedConfig{
				Colors:    2,
				Detail:    0.3,
				Despeckle: 0.1,
				Width:     300,
			},
		},
		Cache: fetchcache.Config{Size: 4096},
		HTTP: fetchcache.HTTPConfig{
			Timeout:      30 * time.Second,
			MaxBodyBytes: fetchcache.DefaultMaxBodyBytes,
			UserAgent:    "imgcdn",
			Retries:      2,
			RetryWait:    200 * time.Millisecond,
		},
	}
}

// Load reads a YAML file on top of the defaults of the profile it names.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data.
func Parse(data []byte) (Options, error) {
	var head struct {
		Profile string `yaml:"profile"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Options{}, fmt.Errorf("parse config: %w", err)
	}

	opts := Default(head.Profile)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("parse config: %w", err)
	}
	return opts, opts.Validate()
}

// Validate checks the sizing parameters.
func (o Options) Validate() error {
	var errs []error
	if o.FluidMinWidth <= 0 {
		errs = append(errs, fmt.Errorf("fluid_min_width must be positive, got %d", o.FluidMinWidth))
	}
	if o.FluidMaxWidth < o.FluidMinWidth {
		errs = append(errs, fmt.Errorf("fluid_max_width (%d) must be >= fluid_min_width (%d)", o.FluidMaxWidth, o.FluidMinWidth))
	}
	if o.BreakpointsMaxImages < 1 {
		errs = append(errs, fmt.Errorf("breakpoints_max_images must be >= 1, got %d", o.BreakpointsMaxImages))
	}
	if o.FixedWidth <= 0 {
		errs = append(errs, fmt.Errorf("fixed_width must be positive, got %d", o.FixedWidth))
	}
	if o.Placeholder.Base64Width <= 0 {
		errs = append(errs, fmt.Errorf("placeholder.base64_width must be positive, got %d", o.Placeholder.Base64Width))
	}
	if o.Placeholder.Traced.Width <= 0 {
		errs = append(errs, fmt.Errorf("placeholder.traced_svg.width must be positive, got %d", o.Placeholder.Traced.Width))
	}
	if o.Cache.Size < 0 {
		errs = append(errs, fmt.Errorf("cache.size must be >= 0, got %d", o.Cache.Size))
	}
	return errors.Join(errs...)
}
