package httpapi

import (
	"encoding/json"
	"net/http"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/secrets"
)

type SecretsHandler struct {
	Cfg config.Config
}

type setPlacesKeyReq struct {
	Key string `json:"key"`
}

// SetPlacesKey stores the commercial source's API key in the OS keyring so
// it never has to live in config.yml.
func (h SecretsHandler) SetPlacesKey(w http.ResponseWriter, r *http.Request) {
	var req setPlacesKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "Invalid JSON body.")
		return
	}
	if err := secrets.SetPlacesAPIKey(h.Cfg.Google.KeyringAccount, req.Key); err != nil {
		WriteError(w, http.StatusBadRequest, "keyring_store_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeletePlacesKey(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeletePlacesAPIKey(h.Cfg.Google.KeyringAccount); err != nil {
		WriteError(w, http.StatusBadRequest, "keyring_delete_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
