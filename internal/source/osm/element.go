package osm

import (
	"fmt"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/source"
	"leadgen-engine/internal/source/util"
)

// element is one Overpass node or way. Ways carry their coordinates in
// "center" (the query asks for "out center").
type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// elementOutcome converts an Overpass element into a Place, mirroring the
// commercial source's completeness rules: no name, no coordinates or no
// website means no Place.
func elementOutcome(el element, tagKey, tagValue string) source.Outcome {
	name := el.Tags["name"]
	if name == "" {
		name = el.Tags["brand"]
	}
	if name == "" {
		return source.Skip(source.SkipNoName)
	}

	lat, lon := el.Lat, el.Lon
	if el.Type != "node" && el.Center != nil {
		lat, lon = el.Center.Lat, el.Center.Lon
	}
	if lat == nil || lon == nil {
		return source.Skip(source.SkipNoCoords)
	}

	website := el.Tags["website"]
	if website == "" {
		website = el.Tags["contact:website"]
	}
	website = util.NormalizeWebsite(website)
	if website == "" {
		return source.Skip(source.SkipNoWebsite)
	}

	addr := joinNonEmpty(" ",
		el.Tags["addr:street"],
		el.Tags["addr:housenumber"],
		el.Tags["addr:postcode"],
		el.Tags["addr:city"],
	)
	if addr == "" {
		addr = fmt.Sprintf("%.4f, %.4f", *lat, *lon)
	}

	phone := el.Tags["phone"]
	if phone == "" {
		phone = el.Tags["contact:phone"]
	}

	elType := el.Type
	if elType == "" {
		elType = "node"
	}

	return source.Keep(domain.Place{
		ID:               fmt.Sprintf("osm:%s:%d", elType, el.ID),
		Name:             util.CleanText(name),
		FormattedAddress: util.CleanText(addr),
		Latitude:         *lat,
		Longitude:        *lon,
		Website:          website,
		Phone:            phone,
		MapURL:           fmt.Sprintf("https://www.openstreetmap.org/%s/%d", elType, el.ID),
		Types:            []string{tagKey + "=" + tagValue},
	})
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
