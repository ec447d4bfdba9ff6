package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRenderHash(t *testing.T) {
	base := Fingerprint{
		ContentHash:  HashBytes([]byte("# doc")),
		FragmentHash: HashFragments(map[string]string{"/a.md": "1", "/b.md": "2"}),
		ConfigHash:   HashConfig("doc", false, "/root", "website", "@site/"),
	}
	base.ComputeRenderHash()
	assert.NotEmpty(t, base.RenderHash)
	assert.Equal(t, HashBytes([]byte(EngineVersion)), base.EngineHash)

	same := Fingerprint{
		ContentHash:  HashBytes([]byte("# doc")),
		FragmentHash: HashFragments(map[string]string{"/b.md": "2", "/a.md": "1"}),
		ConfigHash:   HashConfig("doc", false, "/root", "website", "@site/"),
	}
	same.ComputeRenderHash()
	assert.Equal(t, base.RenderHash, same.RenderHash)

	other := same
	other.ConfigHash = HashConfig("presentation", false, "/root", "website", "@site/")
	other.ComputeRenderHash()
	assert.NotEqual(t, base.RenderHash, other.RenderHash)

	for _, cfg := range []string{
		HashConfig("doc", false, "/root", "site", "@site/"),
		HashConfig("doc", false, "/root", "website", "@docs/"),
	} {
		moved := same
		moved.ConfigHash = cfg
		moved.ComputeRenderHash()
		assert.NotEqual(t, base.RenderHash, moved.RenderHash)
	}

	changed := same
	changed.FragmentHash = HashFragments(map[string]string{"/a.md": "1", "/b.md": "3"})
	changed.ComputeRenderHash()
	assert.NotEqual(t, base.RenderHash, changed.RenderHash)
}
