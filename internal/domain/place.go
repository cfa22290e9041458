package domain

// Place is a provider-neutral business record produced by a source adapter.
// Website, when non-empty, is an absolute http(s) URL with no query string and
// no trailing slash (see source/util.NormalizeWebsite). A Place is built once
// per fetch and never mutated afterwards.
type Place struct {
	ID               string // opaque identity key, unique per provider+record
	Name             string
	FormattedAddress string
	Latitude         float64
	Longitude        float64
	Website          string
	Phone            string
	MapURL           string // provider-specific map link (Google Maps / OSM)
	Owner            string
	Rating           *float64 // nil when the provider has no ratings
	RatingsTotal     *int
	Types            []string
}
