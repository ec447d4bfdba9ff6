package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"lessonscript/internal/domain/config"
	"lessonscript/internal/domain/content"
	"lessonscript/internal/ingest"
	"lessonscript/internal/mdx"
	"lessonscript/internal/render"
)

// Server previews normalized scripts. Documents are normalized on every
// request, so edits show up without a build.
type Server struct {
	cfg      config.Config
	root     string
	norm     *mdx.Normalizer
	outliner *render.Outliner

	mu   sync.RWMutex
	docs map[string]content.Document

	sseMu    sync.Mutex
	sseConns map[chan string]struct{}
}

func New(cfg config.Config, root string, norm *mdx.Normalizer) (*Server, error) {
	if norm == nil {
		return nil, errors.New("serve: missing normalizer")
	}
	return &Server{
		cfg:      cfg,
		root:     root,
		norm:     norm,
		outliner: render.NewOutliner(),
		docs:     make(map[string]content.Document),
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) sourceDir() string {
	return config.ResolvePath(s.root, s.cfg.Build.SourceDir)
}

// WatchDirs lists the trees whose changes affect the preview: the documents
// and the site directory holding shared fragments.
func (s *Server) WatchDirs() []string {
	return []string{s.sourceDir(), config.ResolvePath(s.root, s.cfg.Project.SiteDir)}
}

// Handler exposes the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/script/", s.handleScript)
	mux.HandleFunc("/outline/", s.handleOutline)

	// dev SSE
	mux.HandleFunc("/dev/events", s.handleSSE)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}

	if err := Watch(ctx, s.WatchDirs(), func(ctx context.Context) {
		if err := s.Rebuild(ctx); err != nil {
			log.Printf("[serve] rebuild error: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("serve: watch: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild rereads the document list and drops cached fragments, then tells
// connected browsers to reload.
func (s *Server) Rebuild(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sourceDir := s.sourceDir()
	log.Printf("[serve] ingest from %s ...", sourceDir)
	docs, warns, err := ingest.Ingest(sourceDir, ingest.Options{IncludeDraft: true})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		log.Printf("[warn] %s: %s", w.Path, w.Msg)
	}

	m := make(map[string]content.Document, len(docs))
	for _, d := range docs {
		m[d.Source.RelPath] = d
	}
	s.norm.Purge()
	s.mu.Lock()
	s.docs = m
	s.mu.Unlock()

	log.Printf("[serve] ingested %d documents", len(docs))
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) lookup(prefix string, r *http.Request) (content.Document, bool) {
	rel := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	s.mu.RLock()
	d, ok := s.docs[rel]
	s.mu.RUnlock()
	return d, ok
}

func parseOptions(r *http.Request) (mdx.Options, error) {
	q := r.URL.Query()
	opt := mdx.Options{Mode: content.ModeDoc}
	if m := q.Get("mode"); m != "" {
		mode, err := content.ParseRenderMode(m)
		if err != nil {
			return opt, err
		}
		opt.Mode = mode
	}
	if p := q.Get("preserve"); p != "" {
		v, err := strconv.ParseBool(p)
		if err != nil {
			return opt, fmt.Errorf("preserve: %w", err)
		}
		opt.PreserveCode = v
	}
	return opt, nil
}

func (s *Server) normalize(w http.ResponseWriter, r *http.Request, prefix string) (content.Document, mdx.Options, mdx.Result, bool) {
	doc, ok := s.lookup(prefix, r)
	if !ok {
		http.NotFound(w, r)
		return doc, mdx.Options{}, mdx.Result{}, false
	}
	opt, err := parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return doc, opt, mdx.Result{}, false
	}
	res, err := s.norm.NormalizeDocument(doc.Source.Path, opt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return doc, opt, res, false
		}
		log.Printf("normalize error: %v", err)
		http.Error(w, "normalize error", http.StatusInternalServerError)
		return doc, opt, res, false
	}
	for _, ip := range res.MissingFragments() {
		log.Printf("[warn] %s: shared fragment not found: %s", doc.Source.RelPath, ip)
	}
	return doc, opt, res, true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	docs := make([]content.Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	s.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].Source.RelPath < docs[j].Source.RelPath })

	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "%s\t%s\n", d.Source.RelPath, d.DisplayTitle())
	}
	writeText(w, b.String())
}

// /script/<relpath>?mode=doc|presentation&preserve=1
func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	_, _, res, ok := s.normalize(w, r, "/script/")
	if !ok {
		return
	}
	writeText(w, res.Text)
}

type outlineResponse struct {
	Source           string               `json:"source"`
	Mode             string               `json:"mode"`
	Title            string               `json:"title"`
	Outline          render.OutlineResult `json:"outline"`
	MissingFragments []string             `json:"missing_fragments,omitempty"`
}

// /outline/<relpath>?mode=doc|presentation
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, opt, res, ok := s.normalize(w, r, "/outline/")
	if !ok {
		return
	}
	out := s.outliner.Outline([]byte(res.Text))
	title := doc.Meta.Title
	if title == "" {
		title = out.Title()
	}
	if title == "" {
		title = doc.DisplayTitle()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(outlineResponse{
		Source:           doc.Source.RelPath,
		Mode:             string(opt.Mode),
		Title:            title,
		Outline:          out,
		MissingFragments: res.MissingFragments(),
	})
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
