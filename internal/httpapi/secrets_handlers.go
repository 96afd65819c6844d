package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/torkay/prospect-command-center/internal/secrets"
)

type SecretsHandler struct{}

type setSerpKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) SetSerpKey(w http.ResponseWriter, r *http.Request) {
	var req setSerpKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := secrets.SetSerpKey(req.Key); err != nil {
		http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteSerpKey(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteSerpKey(); err != nil {
		http.Error(w, "failed to delete key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
