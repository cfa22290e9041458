package collect

import (
	"fmt"
	"time"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/harvest"
	"leadgen-engine/internal/secrets"
	"leadgen-engine/internal/source"
	"leadgen-engine/internal/source/googleplaces"
	"leadgen-engine/internal/source/osm"
)

// BuildSource constructs the configured place source. For the commercial
// source, a missing API key is a configuration error that surfaces to the
// caller before any work happens.
func BuildSource(cfg config.Config, name string) (source.Source, error) {
	if name == "" {
		name = cfg.Collect.Source
	}

	switch name {
	case "google":
		key, err := secrets.PlacesAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return googleplaces.New(googleplaces.Config{
			APIKey:         key,
			Country:        cfg.Collect.Country,
			MinTextResults: cfg.Google.MinTextResults,
			NearbyRadiusM:  cfg.Google.NearbyRadiusM,
			APIDelay:       time.Duration(cfg.Politeness.APIDelayMS) * time.Millisecond,
			TokenDelay:     time.Duration(cfg.Politeness.TokenDelayMS) * time.Millisecond,
		}), nil

	case "osm":
		tags := make(map[string][]config.TagQuery, len(cfg.Catalog.Tags))
		for _, nt := range cfg.Catalog.Tags {
			tags[nt.Niche] = nt.Queries
		}
		return osm.New(osm.Config{
			Country:  cfg.Collect.Country,
			Tags:     tags,
			APIDelay: time.Duration(cfg.Politeness.APIDelayMS) * time.Millisecond,
		}), nil

	default:
		return nil, fmt.Errorf("unknown source %q (want osm or google)", name)
	}
}

// BuildHarvester constructs the email harvester with the configured
// politeness delay.
func BuildHarvester(cfg config.Config) *harvest.Harvester {
	return harvest.New(harvest.Config{
		PageDelay: time.Duration(cfg.Politeness.WebDelayMS) * time.Millisecond,
	})
}
