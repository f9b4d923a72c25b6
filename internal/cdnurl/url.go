// Package cdnurl composes delivery URLs in the image CDN's path-based
// transformation syntax:
//
//	https://res.cloudinary.com/<account>/image/upload/<primary>/<stage>.../v<version>/<public_id>
//
// Everything here is pure: identical inputs always produce the identical
// string, which the fetch cache relies on for its keys.
package cdnurl

import (
	"net/url"
	"strings"
)

const (
	// DefaultHost is the shared public delivery host.
	DefaultHost = "res.cloudinary.com"

	// FlagGetInfo asks the CDN for a JSON description of the transformed
	// asset instead of the asset itself.
	FlagGetInfo = "fl_getinfo"

	defaultResourceType = "image"
	defaultDeliveryType = "upload"
)

// Identity addresses one asset within an account.
type Identity struct {
	Account  string
	PublicID string
	Version  string // optional, emitted as "v<version>"
}

// Domain overrides the delivery host.
type Domain struct {
	CNAME              string `yaml:"cname" json:"cname,omitempty"`
	SecureDistribution string `yaml:"secure_distribution" json:"secure_distribution,omitempty"`
	PrivateCDN         bool   `yaml:"private_cdn" json:"private_cdn,omitempty"`
}

// Request describes the transformations applied to an asset.
type Request struct {
	// Transformations is the primary token group, comma-joined into the
	// first transformation segment.
	Transformations []string
	// Chained stages follow the primary group, one path segment each.
	Chained [][]string
	// Format, when set, adds an f_<format> token to the primary group.
	Format string
	Domain Domain
	// Insecure selects http. The zero value is https.
	Insecure bool
	// Flag is an optional standalone segment such as FlagGetInfo.
	Flag string

	ResourceType string // default "image"
	DeliveryType string // default "upload"
}

// Build returns the fully qualified URL for id under req.
func Build(id Identity, req Request) string {
	scheme := "https"
	if req.Insecure {
		scheme = "http"
	}

	host, withAccount := resolveHost(id.Account, req)

	segments := make([]string, 0, 8+len(req.Chained))
	if withAccount {
		segments = append(segments, id.Account)
	}
	segments = append(segments,
		orDefault(req.ResourceType, defaultResourceType),
		orDefault(req.DeliveryType, defaultDeliveryType),
	)

	primary := Primary(req)
	if p := joinTokens(primary); p != "" {
		segments = append(segments, p)
	}
	for _, stage := range req.Chained {
		if s := joinTokens(stage); s != "" {
			segments = append(segments, s)
		}
	}
	if req.Flag != "" {
		segments = append(segments, req.Flag)
	}
	if v := strings.TrimPrefix(id.Version, "v"); v != "" {
		segments = append(segments, "v"+v)
	}
	segments = append(segments, EscapePublicID(id.PublicID))

	return scheme + "://" + host + "/" + collapseSlashes(strings.Join(segments, "/"))
}

// Primary returns the primary token group including the format token.
// The format token goes before any trailing size tokens so they stay last.
func Primary(req Request) []string {
	if req.Format == "" || hasPrefixToken(req.Transformations, "f_") {
		return append([]string(nil), req.Transformations...)
	}
	at := len(req.Transformations)
	for at > 0 && isSizeToken(req.Transformations[at-1]) {
		at--
	}
	tokens := make([]string, 0, len(req.Transformations)+1)
	tokens = append(tokens, req.Transformations[:at]...)
	tokens = append(tokens, "f_"+req.Format)
	return append(tokens, req.Transformations[at:]...)
}

// resolveHost applies the override precedence: private CDN, then CNAME,
// then the shared public host. The bool reports whether the account name
// must appear as the first path segment.
func resolveHost(account string, req Request) (string, bool) {
	d := req.Domain
	switch {
	case d.PrivateCDN:
		if !req.Insecure && d.SecureDistribution != "" {
			return d.SecureDistribution, false
		}
		return account + "-res.cloudinary.com", false
	case d.CNAME != "":
		return d.CNAME, true
	default:
		return DefaultHost, true
	}
}

// EscapePublicID percent-encodes each path segment of a public id exactly
// once. Segments that already carry valid escapes are decoded first so
// "my%20pic" and "my pic" produce the same URL.
func EscapePublicID(publicID string) string {
	parts := strings.Split(publicID, "/")
	for i, p := range parts {
		if decoded, err := url.PathUnescape(p); err == nil {
			p = decoded
		}
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func joinTokens(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		t = strings.Trim(strings.TrimSpace(t), ",/")
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t)
	}
	return b.String()
}

func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

func hasPrefixToken(tokens []string, prefix string) bool {
	for _, t := range tokens {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
