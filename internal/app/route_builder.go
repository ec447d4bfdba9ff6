package app

import (
	"path"
	"strings"

	"lessonscript/internal/domain/content"
	"lessonscript/internal/domain/site"
)

type RouteBuilder struct{}

// BuildScriptRoutes yields one route per document and mode, grouped by
// mode in the order given.
func (rb *RouteBuilder) BuildScriptRoutes(docs []content.Document, modes []content.RenderMode) []site.Route {
	var routes []site.Route
	for _, mode := range modes {
		for _, d := range docs {
			rel := d.Source.RelPath
			out := path.Join(string(mode), strings.TrimSuffix(rel, path.Ext(rel))+".txt")
			routes = append(routes, site.Route{
				Kind:    site.RouteScript,
				Source:  rel,
				Mode:    string(mode),
				OutPath: out,
			})
		}
	}
	return routes
}

func (rb *RouteBuilder) BuildManifestRoute() site.Route {
	return site.Route{Kind: site.RouteManifest, OutPath: site.ManifestPath}
}
