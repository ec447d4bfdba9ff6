package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"lessonscript/internal/domain/config"
	"lessonscript/internal/domain/content"
	"lessonscript/internal/mdx"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "lessonscript",
	Short: "Turn MDX lessons into narration and slide scripts",
	Long: `lessonscript normalizes MDX/Markdown course material into plain
narrative text for text-to-speech scripting and slide generation.

Configuration comes from lessonscript.yaml, LESSONSCRIPT_* environment
variables (a .env file is loaded first) and flags, in increasing order
of precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.AddCommand(normalizeCmd, buildCmd, serveCmd)

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().String("root", "", "Project root (alias targets resolve under it)")
	rootCmd.PersistentFlags().Bool("preserve-code", false, "Keep fenced code blocks verbatim")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("project.root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("build.preserve_code", rootCmd.PersistentFlags().Lookup("preserve-code"))
}

func initEnv() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("LESSONSCRIPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file and applies env and flag overrides on
// top of it.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(viper.GetString("config"))
	if err != nil {
		return cfg, err
	}

	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setString("project.root", &cfg.Project.Root)
	setString("project.site_dir", &cfg.Project.SiteDir)
	setString("build.source_dir", &cfg.Build.SourceDir)
	setString("build.out_dir", &cfg.Build.OutDir)
	setString("build.cache_path", &cfg.Build.CachePath)
	setString("publish.endpoint", &cfg.Publish.Endpoint)
	setString("publish.region", &cfg.Publish.Region)
	setString("publish.access_key", &cfg.Publish.AccessKey)
	setString("publish.secret_key", &cfg.Publish.SecretKey)
	setString("publish.bucket", &cfg.Publish.Bucket)
	setString("publish.prefix", &cfg.Publish.Prefix)

	if viper.IsSet("build.preserve_code") {
		cfg.Build.PreserveCode = viper.GetBool("build.preserve_code")
	}
	if viper.IsSet("publish.use_ssl") {
		cfg.Publish.UseSSL = viper.GetBool("publish.use_ssl")
	}
	if viper.IsSet("build.modes") {
		var modes []content.RenderMode
		// env values arrive as one "doc,presentation" string
		for _, m := range viper.GetStringSlice("build.modes") {
			for _, part := range strings.Split(m, ",") {
				if part = strings.TrimSpace(part); part != "" {
					modes = append(modes, content.RenderMode(part))
				}
			}
		}
		cfg.Build.Modes = modes
	}

	return cfg, cfg.Validate()
}

// setup loads the config, resolves the project root once and builds the
// normalizer every command shares.
func setup() (config.Config, string, *mdx.Normalizer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, "", nil, err
	}
	root, err := cfg.ProjectRoot()
	if err != nil {
		return cfg, "", nil, err
	}
	n, err := mdx.NewNormalizer(mdx.PathResolver{
		Root:    root,
		SiteDir: cfg.Project.SiteDir,
		Alias:   cfg.Project.Alias,
	}, cfg.Build.FragmentCacheSize)
	if err != nil {
		return cfg, "", nil, err
	}
	return cfg, root, n, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
