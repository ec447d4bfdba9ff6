package ingest

import (
	"os"
	"runtime"
	"sort"
	"sync"

	domainbuild "lessonscript/internal/domain/build"
	"lessonscript/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Document content.Document
	Warns    []Warning
	Skip     bool
	Err      error
}

type Options struct {
	IncludeDraft bool
}

// Ingest discovers and reads every document under sourceDir. Documents come
// back sorted by relative path.
func Ingest(sourceDir string, opt Options) ([]content.Document, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- readDocument(sf, opt)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var (
		out      []content.Document
		warns    []Warning
		firstErr error
	)
	// drain everything so the workers never block on a send
	for r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		warns = append(warns, r.Warns...)
		if r.Skip {
			continue
		}
		out = append(out, r.Document)
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Source.RelPath < out[j].Source.RelPath })
	sort.SliceStable(warns, func(i, j int) bool { return warns[i].Path < warns[j].Path })

	seen := make(map[string]string, len(out))
	for _, d := range out {
		if prev, ok := seen[d.Meta.Slug]; ok {
			warns = append(warns, Warning{Path: d.Source.Path, Msg: "slug " + d.Meta.Slug + " already used by " + prev})
			continue
		}
		seen[d.Meta.Slug] = d.Source.RelPath
	}
	return out, warns, nil
}

func readDocument(sf SourceFile, opt Options) Result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	var warns []Warning
	fm, _, fmErr := ParseFrontMatter(raw)
	if fmErr != nil && fmErr != errNoFrontMatter {
		// the normalizer still handles the document, only metadata is lost
		warns = append(warns, Warning{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()})
		fm = FrontMatter{}
	}
	if fm.Draft && !opt.IncludeDraft {
		return Result{Skip: true}
	}

	meta := content.DocumentMeta{
		Title:       fm.Title,
		Description: fm.Description,
		Slug:        ResolveSlug(fm, sf.RelPath),
		Label:       fm.Label,
		Position:    fm.Position,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
	}
	meta.Normalize()
	if meta.Title == "" && meta.Label == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}

	return Result{
		Document: content.Document{
			Meta: meta,
			Source: content.SourceRef{
				Path:        sf.Path,
				RelPath:     sf.RelPath,
				ContentHash: domainbuild.HashBytes(raw),
			},
		},
		Warns: warns,
	}
}
