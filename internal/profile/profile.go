package profile

// Profile is a named preset of sizing defaults for a kind of site.
type Profile struct {
	Name                 string
	FluidMinWidth        int      // smallest generated fluid breakpoint
	FluidMaxWidth        int      // largest generated fluid breakpoint
	BreakpointsMaxImages int      // breakpoint count for the default planner
	FixedWidth           int      // fixed layout width when none is requested
	Base64Width          int      // blurred placeholder width
	Transformations      []string // applied when a query has none
}

// DefaultName is used when no profile is configured.
const DefaultName = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:                 "default",
		FluidMinWidth:        200,
		FluidMaxWidth:        1000,
		BreakpointsMaxImages: 5,
		FixedWidth:           400,
		Base64Width:          30,
		Transformations:      []string{"c_fill", "g_auto", "q_auto"},
	},
	"hq": {
		Name:                 "hq",
		FluidMinWidth:        320,
		FluidMaxWidth:        2560,
		BreakpointsMaxImages: 8,
		FixedWidth:           600,
		Base64Width:          40,
		Transformations:      []string{"c_fill", "g_auto", "q_auto:good"},
	},
	"minimal": {
		Name:                 "minimal",
		FluidMinWidth:        320,
		FluidMaxWidth:        960,
		BreakpointsMaxImages: 3,
		FixedWidth:           320,
		Base64Width:          20,
		Transformations:      []string{"q_auto"},
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p.clone()
	}
	p := profiles[DefaultName].clone()
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profile names.
func Names() []string {
	return []string{"default", "hq", "minimal"}
}

func (p Profile) clone() Profile {
	p.Transformations = append([]string(nil), p.Transformations...)
	return p
}
