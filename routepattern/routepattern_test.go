package routepattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/resource"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newResolver(root string) *Resolver {
	return NewResolver(resource.NewLocator(root, nil, nil))
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		tokens  []string
	}{
		{name: "bracket pair", content: "<(?<id>[0-9]+)|literal>", want: "id|literal", tokens: []string{"id"}},
		{name: "same delimiter", content: "/(?<slug>[a-z-]+)/", want: "slug", tokens: []string{"slug"}},
		{name: "go capture syntax", content: "#(?P<name>\\w+)#", want: "name", tokens: []string{"name"}},
		{name: "no capture", content: "_new|latest_", want: "new|latest"},
		{name: "trailing newline", content: "_(?<id>\\d+)_\n", want: "id", tokens: []string{"id"}},
		{name: "lookbehind is not a capture", content: "/(?<=x)y/", want: "(?<=x)y"},
		{name: "empty body", content: "{}", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDescriptor(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
			assert.Equal(t, tt.tokens, d.Tokens())
		})
	}
}

func TestParseDescriptorMalformed(t *testing.T) {
	for _, content := range []string{"", "<", "<(?<id>\\d+)", "a(?<id>\\d+)a", "/(?<id>\\d+)#", "\\x\\"} {
		_, err := ParseDescriptor(content)
		require.Error(t, err, "content %q", content)
		assert.Equal(t, docerr.KindMalformed, docerr.GetKind(err))
	}
}

func TestCaptureName(t *testing.T) {
	name, ok := CaptureName("prefix-(?<id>[0-9]+)-(?<other>x)")
	assert.True(t, ok)
	assert.Equal(t, "id", name)

	_, ok = CaptureName("[0-9]+")
	assert.False(t, ok)
}

func TestResolveLiteralOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shop", "widgets"), 0o755))

	p, err := newResolver(root).Resolve("/shop//widgets/", resource.GET)
	require.NoError(t, err)
	assert.Equal(t, "/shop/widgets", p.String())
	assert.Empty(t, p.Params())
}

func TestResolveDescriptorRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x", AllDescriptor), "<(?<id>[0-9]+)|literal>")

	p, err := newResolver(root).Resolve("/x/", resource.GET)
	require.NoError(t, err)
	assert.Equal(t, "/x/id|literal", p.String())
}

func TestResolvePrefersVerbDescriptor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "widgets", AllDescriptor), "/(?<id>\\d+)/")
	writeFile(t, filepath.Join(root, "widgets", "put.regex"), "/(?<uuid>[a-f0-9-]+)/")

	r := newResolver(root)
	put, err := r.Resolve("/widgets/", resource.PUT)
	require.NoError(t, err)
	assert.Equal(t, "/widgets/uuid", put.String())

	get, err := r.Resolve("/widgets/", resource.GET)
	require.NoError(t, err)
	assert.Equal(t, "/widgets/id", get.String())
}

func TestResolveNestedDescriptorsAccumulate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shops", AllDescriptor), "/(?<shop>\\d+)/")
	writeFile(t, filepath.Join(root, "shops", "widgets", AllDescriptor), "/(?<widget>\\d+)/")

	p, err := newResolver(root).Resolve("/shops/widgets/", resource.GET)
	require.NoError(t, err)
	assert.Equal(t, "/shops/shop/widgets/widget", p.String())
	assert.Equal(t, []string{"shop", "widget"}, p.Params())
	assert.Equal(t, "/shops/{shop}/widgets/{widget}", p.Template())
}

func TestResolvePostDropsTrailingParam(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "widgets", AllDescriptor), "/(?<id>\\d+)/")

	r := newResolver(root)
	get, err := r.Resolve("/widgets/", resource.GET)
	require.NoError(t, err)
	post, err := r.Resolve("/widgets/", resource.POST)
	require.NoError(t, err)

	assert.Equal(t, "/widgets/id", get.String())
	assert.Equal(t, "/widgets", post.String())
}

func TestResolvePostKeepsLiteralTail(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "widgets", AllDescriptor), "/new|latest/")

	p, err := newResolver(root).Resolve("/widgets/", resource.POST)
	require.NoError(t, err)
	assert.Equal(t, "/widgets/new|latest", p.String())
}

func TestResolveMalformedDescriptor(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "widgets", AllDescriptor)
	writeFile(t, path, "<(?<id>\\d+)")

	_, err := newResolver(root).Resolve("/widgets/", resource.GET)
	require.Error(t, err)
	assert.Equal(t, docerr.KindMalformed, docerr.GetKind(err))
	assert.Contains(t, err.Error(), AllDescriptor)
}

func TestResolveIgnoresDescriptorsOutsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "rest")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeFile(t, filepath.Join(base, "elsewhere", AllDescriptor), "/(?<leak>.+)/")

	p, err := newResolver(root).Resolve("/../elsewhere/", resource.GET)
	require.NoError(t, err)
	assert.Equal(t, "/../elsewhere", p.String())
	assert.Empty(t, p.Params())
}

func TestPatternHelpers(t *testing.T) {
	assert.Equal(t, "", Pattern{}.String())
	assert.Equal(t, "/", Pattern{}.Template())
	assert.Equal(t, Pattern{}, Pattern{}.TrimTrailingParam())
}
