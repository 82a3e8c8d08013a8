// Package api exposes the pipeline over HTTP: submitting a batch of
// document folders for processing and polling an instance's checkpointed
// progress.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/banerRana/docpipe/internal/checkpoints"
	"github.com/banerRana/docpipe/internal/documents"
)

// Handler serves the pipeline API.
type Handler struct {
	runner *Runner
	store  checkpoints.Store
	ready  func() bool
	logger *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(runner *Runner, store checkpoints.Store, ready func() bool, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		store:  store,
		ready:  ready,
		logger: logger.With("system", "api"),
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /process-documents", h.processDocuments)
	mux.HandleFunc("GET /process-documents/{id}", h.instanceStatus)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submitResponse struct {
	InstanceID uuid.UUID `json:"instance_id"`
	StatusURI  string    `json:"status_uri"`
}

func (h *Handler) processDocuments(w http.ResponseWriter, r *http.Request) {
	var req documents.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if validation := req.Validate(); !validation.IsValid {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "invalid request",
			"messages": validation.Messages,
		})
		return
	}

	instanceID := h.runner.Launch(req)
	h.logger.Info("batch accepted", "instance_id", instanceID, "container", req.ContainerName)

	writeJSON(w, http.StatusAccepted, submitResponse{
		InstanceID: instanceID,
		StatusURI:  "/process-documents/" + instanceID.String(),
	})
}

type statusResponse struct {
	InstanceID uuid.UUID       `json:"instance_id"`
	Workflow   string          `json:"workflow"`
	Step       string          `json:"step"`
	Document   int             `json:"document_index"`
	Segment    int             `json:"segment_index"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Result     json.RawMessage `json:"result"`
}

func (h *Handler) instanceStatus(w http.ResponseWriter, r *http.Request) {
	instanceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid instance id")
		return
	}

	snap, err := h.store.Load(r.Context(), instanceID)
	if err != nil {
		if errors.Is(err, checkpoints.ErrNotFound) {
			writeError(w, http.StatusNotFound, "instance not found")
			return
		}
		h.logger.Error("status lookup failed", "instance_id", instanceID, "error", err)
		writeError(w, http.StatusInternalServerError, "status lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		InstanceID: snap.InstanceID,
		Workflow:   snap.Workflow,
		Step:       snap.Step,
		Document:   snap.Document,
		Segment:    snap.Segment,
		UpdatedAt:  snap.UpdatedAt,
		Result:     snap.Result,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
