package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"lessonscript/internal/app"
	domainbuild "lessonscript/internal/domain/build"
	"lessonscript/internal/domain/config"
	"lessonscript/internal/domain/content"
	"lessonscript/internal/domain/site"
	"lessonscript/internal/index"
	"lessonscript/internal/ingest"
	"lessonscript/internal/mdx"
	"lessonscript/internal/render"
)

// Publisher uploads a built file. rel is the slash separated path relative
// to the output directory.
type Publisher interface {
	Put(ctx context.Context, rel string, data []byte) error
}

type Builder struct {
	Cfg        config.Config
	Root       string // absolute project root
	Normalizer *mdx.Normalizer
	Outliner   *render.Outliner
	Store      *index.Store // nil disables the cache
	Publisher  Publisher    // nil disables publishing
}

type Result struct {
	Documents int
	Scripts   int
	Cached    int
	Pruned    int
	Published int
	Warnings  []ingest.Warning
	Manifest  Manifest
}

type Manifest struct {
	Engine       string          `json:"engine"`
	PreserveCode bool            `json:"preserve_code"`
	Scripts      []ManifestEntry `json:"scripts"`
}

type ManifestEntry struct {
	Source           string           `json:"source"`
	Slug             string           `json:"slug"`
	Mode             string           `json:"mode"`
	Path             string           `json:"path"`
	Title            string           `json:"title"`
	Tags             []string         `json:"tags,omitempty"`
	Headings         []render.Heading `json:"headings,omitempty"`
	Words            int              `json:"words"`
	NarrationMinutes int              `json:"narration_minutes"`
	RenderHash       string           `json:"render_hash"`
	MissingFragments []string         `json:"missing_fragments,omitempty"`
}

func (b *Builder) path(p string) string {
	return config.ResolvePath(b.Root, p)
}

// Refresh drops cached fragment contents so the next Run rereads them.
func (b *Builder) Refresh() {
	b.Normalizer.Purge()
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	if b.Normalizer == nil {
		return nil, errors.New("build: missing normalizer")
	}
	if b.Outliner == nil {
		b.Outliner = render.NewOutliner()
	}

	docs, warns, err := ingest.Ingest(b.path(b.Cfg.Build.SourceDir), ingest.Options{
		IncludeDraft: b.Cfg.Build.IncludeDraft,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	outDir := b.path(b.Cfg.Build.OutDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir out: %w", err)
	}

	byRel := make(map[string]content.Document, len(docs))
	for _, d := range docs {
		byRel[d.Source.RelPath] = d
	}

	rb := &app.RouteBuilder{}
	routes := rb.BuildScriptRoutes(docs, b.Cfg.Build.Modes)

	res := &Result{
		Documents: len(docs),
		Warnings:  warns,
		Manifest: Manifest{
			Engine:       domainbuild.EngineVersion,
			PreserveCode: b.Cfg.Build.PreserveCode,
		},
	}
	keep := make(map[string]struct{}, len(routes))
	warned := make(map[string]bool)
	var written []site.Route

	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := byRel[r.Source]
		entry, cached, err := b.script(doc, content.RenderMode(r.Mode))
		if err != nil {
			return nil, fmt.Errorf("build script(%s): %w", r, err)
		}
		if cached {
			res.Cached++
		}
		keep[string(entry.Key())] = struct{}{}

		if err := writeFile(outDir, r.OutPath, []byte(entry.Text)); err != nil {
			return nil, err
		}
		written = append(written, r)
		res.Scripts++

		var missing []string
		for _, f := range entry.Fragments {
			if !f.Missing {
				continue
			}
			missing = append(missing, f.ImportPath)
			if k := doc.Source.Path + "\x00" + f.ImportPath; !warned[k] {
				warned[k] = true
				res.Warnings = append(res.Warnings, ingest.Warning{
					Path: doc.Source.Path,
					Msg:  "shared fragment not found: " + f.ImportPath,
				})
			}
		}

		res.Manifest.Scripts = append(res.Manifest.Scripts, ManifestEntry{
			Source:           doc.Source.RelPath,
			Slug:             doc.Meta.Slug,
			Mode:             r.Mode,
			Path:             r.OutPath,
			Title:            entry.Title,
			Tags:             doc.Meta.Tags,
			Headings:         entry.Outline.Headings,
			Words:            entry.Outline.Words,
			NarrationMinutes: entry.Outline.NarrationMinutes,
			RenderHash:       entry.Fingerprint.RenderHash,
			MissingFragments: missing,
		})
	}

	if b.Store != nil {
		n, err := b.Store.Prune(keep)
		if err != nil {
			return nil, fmt.Errorf("prune cache: %w", err)
		}
		res.Pruned = n
	}

	mr := rb.BuildManifestRoute()
	mb, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeFile(outDir, mr.OutPath, mb); err != nil {
		return nil, err
	}
	written = append(written, mr)

	if b.Publisher != nil {
		for _, r := range written {
			data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(r.OutPath)))
			if err != nil {
				return nil, err
			}
			if err := b.Publisher.Put(ctx, r.OutPath, data); err != nil {
				return nil, fmt.Errorf("publish %s: %w", r.OutPath, err)
			}
			res.Published++
		}
	}

	log.Printf("[build] %d documents, %d scripts (%d cached, %d pruned, %d published)",
		res.Documents, res.Scripts, res.Cached, res.Pruned, res.Published)
	return res, nil
}

// script returns the normalized script for doc in mode, reusing the cached
// entry when its fingerprint still matches the sources on disk.
func (b *Builder) script(doc content.Document, mode content.RenderMode) (index.Entry, bool, error) {
	preserve := b.Cfg.Build.PreserveCode
	key := index.Key(doc.Source.RelPath, string(mode), preserve)

	if b.Store != nil {
		prev, err := b.Store.Get(key)
		switch {
		case err == nil:
			current := prev.FragmentHashes()
			for path := range current {
				current[path] = mdx.FragmentHash(path)
			}
			fp := b.fingerprint(doc, mode, current)
			if fp.RenderHash == prev.Fingerprint.RenderHash {
				return prev, true, nil
			}
		case !errors.Is(err, index.ErrNotFound):
			log.Printf("[warn] cache read %s: %v", doc.Source.RelPath, err)
		}
	}

	out, err := b.Normalizer.NormalizeDocument(doc.Source.Path, mdx.Options{Mode: mode, PreserveCode: preserve})
	if err != nil {
		return index.Entry{}, false, err
	}

	outline := b.Outliner.Outline([]byte(out.Text))

	entry := index.Entry{
		Source:       doc.Source.RelPath,
		Mode:         string(mode),
		PreserveCode: preserve,
		Fragments:    out.Fragments,
		Text:         out.Text,
		Title:        scriptTitle(doc, outline),
		Outline:      outline,
		UpdatedAt:    time.Now().UTC(),
	}
	entry.Fingerprint = b.fingerprint(doc, mode, entry.FragmentHashes())
	if b.Store != nil {
		if err := b.Store.Put(entry); err != nil {
			return index.Entry{}, false, fmt.Errorf("cache write: %w", err)
		}
	}
	return entry, false, nil
}

func (b *Builder) fingerprint(doc content.Document, mode content.RenderMode, fragments map[string]string) domainbuild.Fingerprint {
	cfgHash := domainbuild.HashConfig(string(mode), b.Cfg.Build.PreserveCode, b.Root,
		b.Cfg.Project.SiteDir, b.Cfg.Project.Alias)
	fp := domainbuild.Fingerprint{
		ContentHash:  doc.Source.ContentHash,
		FragmentHash: domainbuild.HashFragments(fragments),
		ConfigHash:   cfgHash,
	}
	fp.ComputeRenderHash()
	return fp
}

func scriptTitle(doc content.Document, outline render.OutlineResult) string {
	if doc.Meta.Title != "" {
		return doc.Meta.Title
	}
	if t := outline.Title(); t != "" {
		return t
	}
	return doc.DisplayTitle()
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
