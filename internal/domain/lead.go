package domain

import (
	"strconv"
	"strings"
)

// Sentinel marks an absent string field in exported leads. The literal is kept
// verbatim for compatibility with existing checkpoint and CSV consumers.
const Sentinel = "Nill"

var gmailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
}

// Lead is the exported record for one admitted place. JSON tags match the
// checkpoint wire format, so field names must not change.
type Lead struct {
	Niche            string  `json:"niche"`
	City             string  `json:"city"`
	BusinessName     string  `json:"business_name"`
	FirstName        string  `json:"first_name"`
	ReviewsCount     string  `json:"reviews_count"`
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Phone            string  `json:"phone"`
	MapURL           string  `json:"google_maps_url"`
	WebsiteURL       string  `json:"website_url"`
	Rating           string  `json:"rating"`
	RatingsCount     string  `json:"ratings_count"`
	PlaceID          string  `json:"place_id"`
	EmailsFound      string  `json:"emails_found"`
	EmailSourcePage  string  `json:"email_source_page"`
	GmailAddresses   string  `json:"gmail_addresses"`
}

// LeadFromPlace projects a Place onto the exported column set. Email fields
// start at their sentinels; SetEmails fills them after harvesting.
func LeadFromPlace(p Place, niche, city string) Lead {
	l := Lead{
		Niche:            niche,
		City:             city,
		BusinessName:     p.Name,
		FirstName:        orSentinel(strings.TrimSpace(p.Owner)),
		FormattedAddress: p.FormattedAddress,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Phone:            orSentinel(p.Phone),
		MapURL:           p.MapURL,
		WebsiteURL:       orSentinel(p.Website),
		PlaceID:          p.ID,
		EmailsFound:      Sentinel,
	}
	if p.Rating != nil {
		l.Rating = strconv.FormatFloat(*p.Rating, 'f', -1, 64)
	}
	if p.RatingsTotal != nil {
		n := strconv.Itoa(*p.RatingsTotal)
		l.RatingsCount = n
		l.ReviewsCount = n
	}
	return l
}

// SetEmails records the harvest result. An empty email list keeps the
// sentinel but still stores the source hint (e.g. "robots_blocked").
func (l *Lead) SetEmails(emails []string, sourcePages string) {
	l.EmailSourcePage = sourcePages
	if len(emails) == 0 {
		l.EmailsFound = Sentinel
		return
	}
	l.EmailsFound = strings.Join(emails, "; ")
	l.GmailAddresses = GmailAddresses(emails)
}

// Contactable reports whether the lead has both a real email list and a real
// website, i.e. it survives the default export filter.
func (l Lead) Contactable() bool {
	return hasValue(l.EmailsFound) && hasValue(l.WebsiteURL)
}

// GmailAddresses returns the semicolon-joined subset of emails on a
// gmail-family domain, or "" when there are none.
func GmailAddresses(emails []string) string {
	var gmails []string
	for _, e := range emails {
		at := strings.LastIndex(e, "@")
		if at < 0 {
			continue
		}
		if gmailDomains[strings.ToLower(strings.TrimSpace(e[at+1:]))] {
			gmails = append(gmails, e)
		}
	}
	return strings.Join(gmails, "; ")
}

func orSentinel(s string) string {
	if s == "" {
		return Sentinel
	}
	return s
}

func hasValue(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != Sentinel
}
