package httpapi

import (
	"net/http"

	"leadgen-engine/internal/config"
)

type OptionsHandler struct {
	Cfg config.Config
}

// Get returns the catalog niches and cities for the front-end form.
func (h OptionsHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"niches": h.Cfg.Catalog.Niches,
		"cities": h.Cfg.Catalog.Cities,
	})
}
