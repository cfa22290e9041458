package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// TagQuery is one Overpass tag filter (e.g. amenity=dentist).
type TagQuery struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// NicheTags maps a niche to the Overpass tag queries used by the open-data
// source. A niche may carry several queries; their results get merged.
type NicheTags struct {
	Niche   string     `yaml:"niche"`
	Queries []TagQuery `yaml:"queries"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Collect struct {
		MaxLeads           int    `yaml:"max_leads"`
		CheckpointInterval int    `yaml:"checkpoint_interval"`
		EmailWorkers       int    `yaml:"email_workers"`
		HarvestEmails      bool   `yaml:"harvest_emails"`
		Source             string `yaml:"source"` // "osm" or "google"
		Country            string `yaml:"country"`
	} `yaml:"collect"`

	Politeness struct {
		APIDelayMS   int `yaml:"api_delay_ms"`   // between provider calls
		WebDelayMS   int `yaml:"web_delay_ms"`   // between website page fetches
		TokenDelayMS int `yaml:"token_delay_ms"` // settle time before a pagination token is usable
	} `yaml:"politeness"`

	Catalog struct {
		Niches []string    `yaml:"niches"`
		Cities []string    `yaml:"cities"`
		Tags   []NicheTags `yaml:"tags"`
	} `yaml:"catalog"`

	Google struct {
		APIKey         string `yaml:"api_key"`
		KeyringAccount string `yaml:"keyring_account"`
		MinTextResults int    `yaml:"min_text_results"`
		NearbyRadiusM  int    `yaml:"nearby_radius_m"`
	} `yaml:"google"`
}

// Load reads the YAML config at path on top of the built-in defaults.
// A missing file is not an error; you just get the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// TagsForNiche returns the Overpass queries configured for a niche, or nil.
func (c Config) TagsForNiche(niche string) []TagQuery {
	for _, nt := range c.Catalog.Tags {
		if nt.Niche == niche {
			return nt.Queries
		}
	}
	return nil
}

// ResolveDataDir picks the writable scratch directory for checkpoint and
// output files: explicit override first, then the env var, then /tmp on
// read-only serverless deployments, then the configured default.
func ResolveDataDir(c Config, override string) string {
	if override != "" {
		return override
	}
	if d := os.Getenv("LEADGEN_DATA_DIR"); d != "" {
		return d
	}
	if os.Getenv("VERCEL") != "" {
		return os.TempDir()
	}
	if c.App.DataDir != "" {
		return c.App.DataDir
	}
	return "outputs"
}
