package fetcher

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryTarget is one category pass with its target sub-count.
type CategoryTarget struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// SourcesConfig is the YAML source plan: primary categories in priority
// order, backup categories tried when the primary pass falls short, and
// per-category RSS feeds used when the news API fails for a category.
type SourcesConfig struct {
	Categories       []CategoryTarget  `yaml:"categories"`
	BackupCategories []CategoryTarget  `yaml:"backup_categories"`
	RSSFeeds         map[string]string `yaml:"rss_feeds"`
}

// LoadSources reads the source plan from a YAML file.
func LoadSources(path string) (*SourcesConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources config: %w", err)
	}

	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("sources config has no categories")
	}

	return &cfg, nil
}

// DefaultSources is the plan used when no config file is present.
func DefaultSources() *SourcesConfig {
	return &SourcesConfig{
		Categories: []CategoryTarget{
			{Name: "general", Count: 4},
			{Name: "business", Count: 2},
			{Name: "technology", Count: 2},
			{Name: "sports", Count: 1},
			{Name: "entertainment", Count: 1},
		},
		BackupCategories: []CategoryTarget{
			{Name: "science", Count: 3},
			{Name: "health", Count: 3},
		},
	}
}
