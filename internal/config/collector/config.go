// Package collector holds the pipeline gates and directory layout.
package collector

import (
	"github.com/tknemuru/kindergarten-collecting/internal/config/types"
)

// Default configuration values.
const (
	DefaultDetailLinkPattern = "spdesc.php"
	DefaultCurrParentsDir    = "resources/htmls/parents/curr"
	DefaultAllParentsDir     = "resources/htmls/parents/all"
	DefaultCurrKindersDir    = "resources/htmls/kinders/curr"
	DefaultAllKindersDir     = "resources/htmls/kinders/all"
)

// Config represents the collection pipeline configuration.
type Config struct {
	// RequiredParentsDownload enables purging and downloading the listing pages.
	RequiredParentsDownload bool `env:"COLLECTOR_REQUIRED_PARENTS_DOWNLOAD" yaml:"required_parents_download"`
	// RequiredKindersDownload enables detail URL extraction, purge and download.
	RequiredKindersDownload bool `env:"COLLECTOR_REQUIRED_KINDERS_DOWNLOAD" yaml:"required_kinders_download"`
	// AllClear also purges the cumulative directories before a download stage.
	AllClear bool `env:"COLLECTOR_ALL_CLEAR" yaml:"all_clear"`
	// RequiredAllOutput reads the cumulative directories instead of the current-run ones.
	RequiredAllOutput bool `env:"COLLECTOR_REQUIRED_ALL_OUTPUT" yaml:"required_all_output"`
	// BaseURL is joined with relative detail hrefs.
	BaseURL string `env:"COLLECTOR_BASE_URL" yaml:"base_url"`
	// TargetURLs are the listing pages to download.
	TargetURLs []string `env:"COLLECTOR_TARGET_URLS" yaml:"target_urls"`
	// DetailLinkPattern is the substring identifying detail-page hrefs.
	DetailLinkPattern string `env:"COLLECTOR_DETAIL_LINK_PATTERN" yaml:"detail_link_pattern"`
	// CurrParentsDir holds this run's listing pages.
	CurrParentsDir string `env:"COLLECTOR_CURR_PARENTS_DIR" yaml:"curr_parents_dir"`
	// AllParentsDir holds listing pages accumulated across runs.
	AllParentsDir string `env:"COLLECTOR_ALL_PARENTS_DIR" yaml:"all_parents_dir"`
	// CurrKindersDir holds this run's detail pages.
	CurrKindersDir string `env:"COLLECTOR_CURR_KINDERS_DIR" yaml:"curr_kinders_dir"`
	// AllKindersDir holds detail pages accumulated across runs.
	AllKindersDir string `env:"COLLECTOR_ALL_KINDERS_DIR" yaml:"all_kinders_dir"`
	// CreateDirs creates the four page directories before the pipeline runs.
	CreateDirs bool `env:"COLLECTOR_CREATE_DIRS" yaml:"create_dirs"`
}

// New returns a collector configuration with default values.
func New() Config {
	return Config{
		DetailLinkPattern: DefaultDetailLinkPattern,
		CurrParentsDir:    DefaultCurrParentsDir,
		AllParentsDir:     DefaultAllParentsDir,
		CurrKindersDir:    DefaultCurrKindersDir,
		AllKindersDir:     DefaultAllKindersDir,
		CreateDirs:        true,
	}
}

// ParentsDir returns the listing directory selected by RequiredAllOutput.
func (c *Config) ParentsDir() string {
	if c.RequiredAllOutput {
		return c.AllParentsDir
	}
	return c.CurrParentsDir
}

// KindersDir returns the detail directory selected by RequiredAllOutput.
func (c *Config) KindersDir() string {
	if c.RequiredAllOutput {
		return c.AllKindersDir
	}
	return c.CurrKindersDir
}

// Dirs returns every configured page directory, skipping empty ones.
func (c *Config) Dirs() []string {
	var dirs []string
	for _, d := range []string{c.CurrParentsDir, c.AllParentsDir, c.CurrKindersDir, c.AllKindersDir} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Validate checks that every path and value needed by an enabled gate is present.
func (c *Config) Validate() error {
	if c.RequiredParentsDownload {
		const because = "required_parents_download is true"
		if len(c.TargetURLs) == 0 {
			return types.Required("target_urls", c.TargetURLs, because)
		}
		if c.CurrParentsDir == "" {
			return types.Required("curr_parents_dir", c.CurrParentsDir, because)
		}
		if (c.AllClear || c.RequiredAllOutput) && c.AllParentsDir == "" {
			return types.Required("all_parents_dir", c.AllParentsDir, because+" with all_clear or required_all_output")
		}
	}

	if c.RequiredKindersDownload {
		const because = "required_kinders_download is true"
		if c.BaseURL == "" {
			return types.Required("base_url", c.BaseURL, because)
		}
		if c.DetailLinkPattern == "" {
			return types.Required("detail_link_pattern", c.DetailLinkPattern, because)
		}
		if c.ParentsDir() == "" {
			return types.Required(parentsDirField(c), c.ParentsDir(), because)
		}
		if c.CurrKindersDir == "" {
			return types.Required("curr_kinders_dir", c.CurrKindersDir, because)
		}
		if c.AllKindersDir == "" {
			return types.Required("all_kinders_dir", c.AllKindersDir, because)
		}
	}

	if c.KindersDir() == "" {
		return types.Required(kindersDirField(c), c.KindersDir(), "extracting detail pages")
	}

	return nil
}

func parentsDirField(c *Config) string {
	if c.RequiredAllOutput {
		return "all_parents_dir"
	}
	return "curr_parents_dir"
}

func kindersDirField(c *Config) string {
	if c.RequiredAllOutput {
		return "all_kinders_dir"
	}
	return "curr_kinders_dir"
}
