package reflections

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// API serves GET and POST on the collection root; mount it at /api/reflections.
type API struct {
	store  *FileStore
	logger *slog.Logger
}

func NewAPI(store *FileStore, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}

	return &API{store: store, logger: logger}
}

// Routes returns the API's router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", a.handleList)
	r.Post("/", a.handleAdd)

	return r
}

type addRequest struct {
	Name       string `json:"name"`
	Reflection string `json:"reflection"`
}

func (a *API) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.List())
}

func (a *API) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	rec, err := a.store.Add(req.Name, req.Reflection)
	switch {
	case errors.Is(err, ErrEmptyReflection):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		a.logger.Error("failed to add reflection", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save reflection"})

		return
	}

	a.logger.Info("reflection added", "uid", rec.UID, "name", rec.Name)
	writeJSON(w, http.StatusCreated, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("JSON encode error", "error", err)
	}
}
