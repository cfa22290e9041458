package config

// Default returns the built-in configuration, including the stock catalog of
// niches, cities and niche-to-Overpass-tag mappings. Callers override any of
// it via config.yml or flags.
func Default() Config {
	var cfg Config

	cfg.App.Port = 8080
	cfg.App.DataDir = "outputs"

	cfg.Collect.MaxLeads = 1000
	cfg.Collect.CheckpointInterval = 100
	cfg.Collect.EmailWorkers = 14
	cfg.Collect.Source = "osm"
	cfg.Collect.Country = "Germany"

	cfg.Politeness.APIDelayMS = 500
	cfg.Politeness.WebDelayMS = 1000
	cfg.Politeness.TokenDelayMS = 2000

	cfg.Google.KeyringAccount = "google_places"
	cfg.Google.MinTextResults = 5
	cfg.Google.NearbyRadiusM = 15000

	cfg.Catalog.Cities = []string{
		"Mannheim",
		"Heidelberg",
		"Heilbronn",
		"Pforzheim",
		"Ulm",
		"Reutlingen",
		"Tübingen",
		"Esslingen am Neckar",
	}

	cfg.Catalog.Niches = []string{
		"Physical therapists",
		"Dentists",
		"Auto repair shops",
		"Moving companies",
		"Cleaning companies",
		"Beauty & wellness (premium)",
		"Real estate agents",
		"Lawyers / tax advisors",
		"Pet services",
		"Plumbing & heating",
		"Gardening & landscaping",
	}

	cfg.Catalog.Tags = []NicheTags{
		{Niche: "Physical therapists", Queries: []TagQuery{
			{Key: "amenity", Value: "physiotherapist"},
			{Key: "healthcare", Value: "physiotherapist"},
		}},
		{Niche: "Dentists", Queries: []TagQuery{
			{Key: "amenity", Value: "dentist"},
		}},
		{Niche: "Auto repair shops", Queries: []TagQuery{
			{Key: "shop", Value: "car_repair"},
			{Key: "amenity", Value: "car_repair"},
		}},
		{Niche: "Moving companies", Queries: []TagQuery{
			{Key: "office", Value: "moving_company"},
			{Key: "shop", Value: "storage"},
		}},
		{Niche: "Cleaning companies", Queries: []TagQuery{
			{Key: "office", Value: "company"},
		}},
		{Niche: "Beauty & wellness (premium)", Queries: []TagQuery{
			{Key: "shop", Value: "beauty"},
			{Key: "shop", Value: "cosmetics"},
			{Key: "amenity", Value: "spa"},
		}},
		{Niche: "Real estate agents", Queries: []TagQuery{
			{Key: "office", Value: "estate_agent"},
		}},
		{Niche: "Lawyers / tax advisors", Queries: []TagQuery{
			{Key: "office", Value: "lawyer"},
			{Key: "office", Value: "accountant"},
			{Key: "office", Value: "tax_advisor"},
		}},
		{Niche: "Pet services", Queries: []TagQuery{
			{Key: "shop", Value: "pet"},
			{Key: "amenity", Value: "animal_boarding"},
			{Key: "amenity", Value: "veterinary"},
		}},
		{Niche: "Plumbing & heating", Queries: []TagQuery{
			{Key: "craft", Value: "plumber"},
			{Key: "shop", Value: "plumber"},
		}},
		{Niche: "Gardening & landscaping", Queries: []TagQuery{
			{Key: "shop", Value: "garden_centre"},
			{Key: "craft", Value: "gardener"},
		}},
	}

	return cfg
}
