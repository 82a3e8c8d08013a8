package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/banerRana/docpipe/internal/api"
	"github.com/banerRana/docpipe/internal/checkpoints"
	"github.com/banerRana/docpipe/internal/workflow"
	"github.com/banerRana/docpipe/pkg/lifecycle"
	"github.com/banerRana/docpipe/pkg/storage"
)

// emptyStorage satisfies the storage system with a container that holds
// nothing, so launched batches discover zero folders and complete
// immediately.
type emptyStorage struct{}

func (emptyStorage) GetBlobContent(context.Context, string, string) ([]byte, error) {
	return nil, storage.ErrNotFound
}

func (emptyStorage) Write(context.Context, string, string, []byte, bool) error {
	return nil
}

func (emptyStorage) GroupByTopLevelFolder(context.Context, string, string) ([]storage.Folder, error) {
	return nil, nil
}

func testHandler(t *testing.T, store checkpoints.Store) *api.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lc := lifecycle.New()
	lc.WaitForStartup()
	t.Cleanup(func() { lc.Shutdown(5 * time.Second) })

	rt := &workflow.Runtime{
		Storage:     emptyStorage{},
		Checkpoints: store,
		Logger:      logger,
		Config:      workflow.DefaultConfig(),
	}

	runner := api.NewRunner(lc, rt, logger)
	return api.NewHandler(runner, store, lc.Ready, logger)
}

func TestProcessDocumentsAccepted(t *testing.T) {
	store := checkpoints.NewMemory()
	handler := testHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/process-documents", strings.NewReader(`{"container_name": "invoices"}`))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}

	var resp struct {
		InstanceID uuid.UUID `json:"instance_id"`
		StatusURI  string    `json:"status_uri"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.InstanceID == uuid.Nil {
		t.Error("missing instance id")
	}
	if want := "/process-documents/" + resp.InstanceID.String(); resp.StatusURI != want {
		t.Errorf("status_uri = %q, want %q", resp.StatusURI, want)
	}
}

func TestProcessDocumentsRejectsInvalidRequest(t *testing.T) {
	handler := testHandler(t, checkpoints.NewMemory())

	req := httptest.NewRequest(http.MethodPost, "/process-documents", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "container_name is required") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestInstanceStatus(t *testing.T) {
	store := checkpoints.NewMemory()
	handler := testHandler(t, store)

	instanceID := uuid.New()
	err := store.Save(t.Context(), &checkpoints.Snapshot{
		InstanceID: instanceID,
		Workflow:   workflow.BatchWorkflowName,
		Step:       "fan_out",
		Result:     json.RawMessage(`{"is_valid": true}`),
		Scratch:    json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/process-documents/"+instanceID.String(), nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Workflow string `json:"workflow"`
		Step     string `json:"step"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Workflow != workflow.BatchWorkflowName || resp.Step != "fan_out" {
		t.Errorf("response = %+v", resp)
	}
}

func TestInstanceStatusNotFound(t *testing.T) {
	handler := testHandler(t, checkpoints.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/process-documents/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := testHandler(t, checkpoints.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
