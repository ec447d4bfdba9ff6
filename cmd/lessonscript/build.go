package main

import (
	"context"
	"fmt"
	"log"

	"lessonscript/internal/build"
	"lessonscript/internal/domain/config"
	"lessonscript/internal/index"
	"lessonscript/internal/publish"
	"lessonscript/internal/serve"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Normalize every document for each configured mode and write the scripts",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("watch", false, "Rebuild when documents or fragments change")
	buildCmd.Flags().StringSlice("mode", nil, "Render modes to build (doc, presentation)")
	_ = viper.BindPFlag("build.modes", buildCmd.Flags().Lookup("mode"))
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, root, n, err := setup()
	if err != nil {
		return err
	}

	st, err := index.Open(index.OpenOptions{Path: config.ResolvePath(root, cfg.Build.CachePath)})
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer st.Close()

	b := &build.Builder{
		Cfg:        cfg,
		Root:       root,
		Normalizer: n,
		Store:      st,
	}
	if cfg.Publish.Enabled() {
		pub, err := publish.NewS3Store(cfg.Publish)
		if err != nil {
			return err
		}
		b.Publisher = pub
	}

	ctx := cmd.Context()
	if err := runOnce(ctx, b); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	dirs := []string{
		config.ResolvePath(root, cfg.Build.SourceDir),
		config.ResolvePath(root, cfg.Project.SiteDir),
	}
	if err := serve.Watch(ctx, dirs, func(ctx context.Context) {
		b.Refresh()
		if err := runOnce(ctx, b); err != nil {
			log.Printf("[build] rebuild error: %v", err)
		}
	}); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func runOnce(ctx context.Context, b *build.Builder) error {
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Printf("[warn] %s: %s", w.Path, w.Msg)
	}
	return nil
}
