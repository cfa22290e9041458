package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Collect.MaxLeads <= 0 {
		errs = append(errs, "collect.max_leads must be > 0")
	}
	if cfg.Collect.CheckpointInterval <= 0 {
		errs = append(errs, "collect.checkpoint_interval must be > 0")
	}
	if cfg.Collect.EmailWorkers <= 0 {
		errs = append(errs, "collect.email_workers must be > 0")
	}
	switch cfg.Collect.Source {
	case "osm", "google":
	default:
		errs = append(errs, fmt.Sprintf("collect.source must be osm or google, got %q", cfg.Collect.Source))
	}

	if len(cfg.Catalog.Niches) == 0 {
		errs = append(errs, "catalog.niches must have at least 1 entry")
	}
	if len(cfg.Catalog.Cities) == 0 {
		errs = append(errs, "catalog.cities must have at least 1 entry")
	}
	for i, nt := range cfg.Catalog.Tags {
		if nt.Niche == "" {
			errs = append(errs, fmt.Sprintf("catalog.tags[%d].niche is required", i))
		}
		if len(nt.Queries) == 0 {
			errs = append(errs, fmt.Sprintf("catalog.tags[%d].queries must have at least 1 entry", i))
		}
		for j, q := range nt.Queries {
			if q.Key == "" || q.Value == "" {
				errs = append(errs, fmt.Sprintf("catalog.tags[%d].queries[%d] needs key and value", i, j))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
