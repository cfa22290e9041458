package httpapi

import (
	"net/http"
	"time"
)

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
		},
	}))

	oh := OptionsHandler{Cfg: d.Cfg}
	mux.HandleFunc("/api/options", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: oh.Get,
	}))

	gh := &GenerateHandler{Run: d.RunCollection, DataDir: d.DataDir}
	mux.HandleFunc("/api/generate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: gh.Generate,
	}))

	sh := SecretsHandler{Cfg: d.Cfg}
	mux.HandleFunc("/api/secrets/places-key", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetPlacesKey,
		http.MethodDelete: sh.DeletePlacesKey,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
