package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"lessonscript/internal/domain/content"
	domainerr "lessonscript/internal/domain/errors"
)

const DefaultPath = "lessonscript.yaml"

type Config struct {
	Project ProjectConfig `yaml:"project"`
	Build   BuildConfig   `yaml:"build"`
	Publish PublishConfig `yaml:"publish"`
}

type ProjectConfig struct {
	Root    string `yaml:"root"`
	SiteDir string `yaml:"site_dir"`
	Alias   string `yaml:"alias"`
}

type BuildConfig struct {
	SourceDir         string               `yaml:"source_dir"`
	OutDir            string               `yaml:"out_dir"`
	CachePath         string               `yaml:"cache_path"`
	Modes             []content.RenderMode `yaml:"modes"`
	PreserveCode      bool                 `yaml:"preserve_code"`
	FragmentCacheSize int                  `yaml:"fragment_cache_size"`
	IncludeDraft      bool                 `yaml:"include_draft"`
}

type PublishConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether built scripts should be uploaded.
func (p PublishConfig) Enabled() bool {
	return strings.TrimSpace(p.Bucket) != ""
}

func Default() Config {
	return Config{
		Project: ProjectConfig{
			Root:    ".",
			SiteDir: "website",
			Alias:   "@site/",
		},
		Build: BuildConfig{
			SourceDir:         "website/docs",
			OutDir:            "scripts",
			CachePath:         ".lessonscript/cache.db",
			Modes:             []content.RenderMode{content.ModeDoc},
			FragmentCacheSize: 256,
		},
		Publish: PublishConfig{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Project.Root) == "" {
		ve.Add("project.root", "must not be empty")
	}
	if strings.TrimSpace(c.Project.SiteDir) == "" {
		ve.Add("project.site_dir", "must not be empty")
	}
	if a := strings.TrimSpace(c.Project.Alias); a == "" {
		ve.Add("project.alias", "must not be empty")
	} else if !strings.HasSuffix(a, "/") {
		ve.Add("project.alias", "must end with '/'")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.OutDir) == "" {
		ve.Add("build.out_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.CachePath) == "" {
		ve.Add("build.cache_path", "must not be empty")
	}
	if len(c.Build.Modes) == 0 {
		ve.Add("build.modes", "must list at least one mode")
	}
	seen := make(map[content.RenderMode]bool, len(c.Build.Modes))
	for _, m := range c.Build.Modes {
		if _, err := content.ParseRenderMode(string(m)); err != nil {
			ve.Addf("build.modes", "must be 'doc' or 'presentation', got %q", m)
			continue
		}
		if seen[m] {
			ve.Addf("build.modes", "duplicate mode %q", m)
		}
		seen[m] = true
	}
	if c.Build.FragmentCacheSize <= 0 {
		ve.Add("build.fragment_cache_size", "must be positive")
	}

	if c.Publish.Enabled() {
		if strings.TrimSpace(c.Publish.Endpoint) == "" {
			ve.Add("publish.endpoint", "required when publish.bucket is set")
		}
		if strings.TrimSpace(c.Publish.AccessKey) == "" || strings.TrimSpace(c.Publish.SecretKey) == "" {
			ve.Add("publish.access_key", "access and secret keys are required when publish.bucket is set")
		}
	}

	return ve.Err()
}

// ProjectRoot resolves the configured root once; everything downstream takes
// the absolute path as an explicit value.
func (c Config) ProjectRoot() (string, error) {
	return filepath.Abs(c.Project.Root)
}

// ResolvePath anchors a configured relative path at the project root.
func ResolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// fields present in the file override Default, the rest are kept
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault treats a missing file as "use defaults".
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
