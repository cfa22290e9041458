package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"leadgen-engine/internal/collect"
)

// maxRequestBody caps generate request bodies at 64KB.
const maxRequestBody = 64 << 10

type GenerateHandler struct {
	Run     func(ctx context.Context, opts collect.Options) (string, error)
	DataDir string

	// One collection at a time; concurrent runs would fight over the
	// checkpoint file.
	mu sync.Mutex
}

type generateRequest struct {
	Niches        []string `json:"niches"`
	Cities        []string `json:"cities"`
	MaxLeads      int      `json:"max_leads"`
	ExtractEmails *bool    `json:"extract_emails"`
}

// Generate runs a fresh web-triggered collection (open-data source, cleared
// checkpoint) and streams the CSV back as an attachment.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "Invalid JSON body.")
		return
	}

	niches := cleanList(req.Niches)
	cities := cleanList(req.Cities)
	if len(niches) == 0 || len(cities) == 0 {
		WriteError(w, http.StatusBadRequest, "missing_input", "Please provide at least one niche and one city.")
		return
	}

	maxLeads := req.MaxLeads
	if maxLeads <= 0 {
		maxLeads = 20
	}
	if maxLeads > 500 {
		maxLeads = 500
	}

	extract := true
	if req.ExtractEmails != nil {
		extract = *req.ExtractEmails
	}

	timestamp := time.Now().Unix()
	outPath := filepath.Join(h.DataDir, fmt.Sprintf("leads_web_%d.csv", timestamp))

	h.mu.Lock()
	path, err := h.Run(r.Context(), collect.Options{
		Niches:          niches,
		Cities:          cities,
		MaxLeads:        maxLeads,
		HarvestEmails:   extract,
		OutputPath:      outPath,
		ClearCheckpoint: true,
	})
	h.mu.Unlock()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "generate_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads_%d.csv"`, timestamp))
	http.ServeFile(w, r, path)
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
