package cdnurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_DefaultHost(t *testing.T) {
	got := Build(Identity{Account: "acct1", PublicID: "pic"}, Request{
		Transformations: []string{"c_fill", "g_auto", "w_300"},
	})
	assert.Equal(t, "https://res.cloudinary.com/acct1/image/upload/c_fill,g_auto,w_300/pic", got)
}

func TestBuild_EmptyTransformations(t *testing.T) {
	got := Build(Identity{Account: "acct1", PublicID: "pic"}, Request{})
	assert.Equal(t, "https://res.cloudinary.com/acct1/image/upload/pic", got)
}

func TestBuild_ChainedStagesKeepOrder(t *testing.T) {
	got := Build(Identity{Account: "a", PublicID: "folder/pic", Version: "1234"}, Request{
		Transformations: []string{"c_crop", "ar_16:9"},
		Chained:         [][]string{{"e_grayscale"}, {}, {"e_blur:300", "q_auto"}},
		Format:          "webp",
	})
	assert.Equal(t,
		"https://res.cloudinary.com/a/image/upload/c_crop,ar_16:9,f_webp/e_grayscale/e_blur:300,q_auto/v1234/folder/pic",
		got)
}

func TestBuild_FormatTokenNotDuplicated(t *testing.T) {
	got := Build(Identity{Account: "a", PublicID: "p"}, Request{
		Transformations: []string{"f_auto"},
		Format:          "png",
	})
	assert.Equal(t, "https://res.cloudinary.com/a/image/upload/f_auto/p", got)
}

func TestBuild_SizeTokensStayLast(t *testing.T) {
	got := Build(Identity{Account: "a", PublicID: "p"}, Request{
		Transformations: WithSize([]string{"c_fill", "w_50"}, 300, 200),
		Format:          "jpg",
	})
	assert.Equal(t, "https://res.cloudinary.com/a/image/upload/c_fill,f_jpg,w_300,h_200/p", got)
	assert.Equal(t, []string{"f_png"}, Primary(Request{Format: "png"}))
}

func TestBuild_FlagSegment(t *testing.T) {
	got := Build(Identity{Account: "a", PublicID: "p", Version: "v7"}, Request{
		Transformations: []string{"w_10"},
		Flag:            FlagGetInfo,
	})
	assert.Equal(t, "https://res.cloudinary.com/a/image/upload/w_10/fl_getinfo/v7/p", got)
}

func TestBuild_DomainPrecedence(t *testing.T) {
	id := Identity{Account: "acct", PublicID: "p"}

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "cname",
			req:  Request{Domain: Domain{CNAME: "img.example.com"}},
			want: "https://img.example.com/acct/image/upload/p",
		},
		{
			name: "private cdn wins over cname",
			req:  Request{Domain: Domain{CNAME: "img.example.com", PrivateCDN: true}},
			want: "https://acct-res.cloudinary.com/image/upload/p",
		},
		{
			name: "secure distribution",
			req:  Request{Domain: Domain{PrivateCDN: true, SecureDistribution: "cdn.example.com"}},
			want: "https://cdn.example.com/image/upload/p",
		},
		{
			name: "insecure ignores secure distribution",
			req:  Request{Insecure: true, Domain: Domain{PrivateCDN: true, SecureDistribution: "cdn.example.com"}},
			want: "http://acct-res.cloudinary.com/image/upload/p",
		},
		{
			name: "insecure default host",
			req:  Request{Insecure: true},
			want: "http://res.cloudinary.com/acct/image/upload/p",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(id, tt.req))
		})
	}
}

func TestBuild_CollapsesSlashes(t *testing.T) {
	got := Build(Identity{Account: "a", PublicID: "dir//pic"}, Request{
		Transformations: []string{"/c_fill/"},
	})
	assert.Equal(t, "https://res.cloudinary.com/a/image/upload/c_fill/dir/pic", got)
}

func TestBuild_Idempotent(t *testing.T) {
	id := Identity{Account: "a", PublicID: "p q", Version: "3"}
	req := Request{Transformations: []string{"c_fill"}, Chained: [][]string{{"e_sepia"}}}
	assert.Equal(t, Build(id, req), Build(id, req))
}

func TestEscapePublicID(t *testing.T) {
	assert.Equal(t, "my%20pic", EscapePublicID("my pic"))
	assert.Equal(t, "my%20pic", EscapePublicID("my%20pic"))
	assert.Equal(t, "dir/sub/a%3Fb", EscapePublicID("dir/sub/a?b"))
	assert.Equal(t, "100%25", EscapePublicID("100%"))
}

func TestWithSize_OverridesExisting(t *testing.T) {
	got := WithSize([]string{"c_fill", "w_500", "g_auto", "h_200"}, 300, 0)
	assert.Equal(t, []string{"c_fill", "g_auto", "w_300"}, got)

	got = WithSize([]string{"c_fill"}, 300, 169)
	assert.Equal(t, []string{"c_fill", "w_300", "h_169"}, got)
}

func TestWithSize_DoesNotMutateInput(t *testing.T) {
	in := []string{"w_1", "c_fill"}
	_ = WithSize(in, 2, 0)
	assert.Equal(t, []string{"w_1", "c_fill"}, in)
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"c_fill", "g_auto"}, SplitTokens(" c_fill, ,g_auto "))
	assert.Empty(t, SplitTokens(""))
}

func TestWithoutPrefix(t *testing.T) {
	assert.Equal(t, []string{"c_fill", "q_auto"}, WithoutPrefix([]string{"f_auto", "c_fill", "q_auto"}, "f_"))
}
