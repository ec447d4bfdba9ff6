package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// EngineVersion is folded into every fingerprint; bump it whenever the
// normalizer output changes for unchanged input.
const EngineVersion = "mdx-1"

type Fingerprint struct {
	ContentHash  string
	FragmentHash string
	ConfigHash   string
	EngineHash   string
	RenderHash   string
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashFragments combines per-fragment hashes keyed by path. Order of the
// input does not matter.
func HashFragments(hashes map[string]string) string {
	paths := make([]string, 0, len(hashes))
	for p := range hashes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(hashes[p]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashConfig covers every setting that changes normalized output, including
// the ones that decide where fragment imports resolve.
func HashConfig(mode string, preserveCode bool, projectRoot, siteDir, alias string) string {
	parts := []string{mode, strconv.FormatBool(preserveCode), projectRoot, siteDir, alias}
	return HashBytes([]byte(strings.Join(parts, "\x00")))
}

func (f *Fingerprint) ComputeRenderHash() {
	if f.EngineHash == "" {
		f.EngineHash = HashBytes([]byte(EngineVersion))
	}
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.FragmentHash))
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte(f.EngineHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}
