package googleplaces

import (
	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/source"
	"leadgen-engine/internal/source/util"
)

type placeDetails struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Website          string   `json:"website"`
	Phone            string   `json:"formatted_phone_number"`
	URL              string   `json:"url"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Types            []string `json:"types"`
}

// normalizeDetails turns a raw details record into a Place. Records missing
// identity, coordinates, address or website are skipped; a missing website
// disqualifies the place entirely for this source.
func normalizeDetails(d placeDetails) source.Outcome {
	if d.PlaceID == "" {
		return source.Skip(source.SkipNoID)
	}
	if d.Geometry.Location.Lat == nil || d.Geometry.Location.Lng == nil {
		return source.Skip(source.SkipNoCoords)
	}
	if d.FormattedAddress == "" {
		return source.Skip(source.SkipNoAddress)
	}
	website := util.NormalizeWebsite(d.Website)
	if website == "" {
		return source.Skip(source.SkipNoWebsite)
	}

	return source.Keep(domain.Place{
		ID:               d.PlaceID,
		Name:             util.CleanText(d.Name),
		FormattedAddress: util.CleanText(d.FormattedAddress),
		Latitude:         *d.Geometry.Location.Lat,
		Longitude:        *d.Geometry.Location.Lng,
		Website:          website,
		Phone:            d.Phone,
		MapURL:           d.URL,
		Rating:           d.Rating,
		RatingsTotal:     d.UserRatingsTotal,
		Types:            d.Types,
	})
}
