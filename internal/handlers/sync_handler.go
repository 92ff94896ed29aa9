package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"route-backend/internal/metrics"
	"route-backend/internal/models"
	"route-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxUploadBytes caps workbook uploads at 20 MB.
const maxUploadBytes = 20 << 20

type SyncHandler struct {
	Service *services.SyncService
}

func NewSyncHandler(service *services.SyncService) *SyncHandler {
	return &SyncHandler{Service: service}
}

// bearerToken pulls the internal token out of the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// ImportFromDrive downloads the configured route plan workbook from the
// caller's drive and replaces the customer table with its contents.
func (h *SyncHandler) ImportFromDrive(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	count, err := h.Service.ImportFromDrive(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordImport()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SyncResponse{
		Success:         true,
		Message:         fmt.Sprintf("Imported %d customers from the route plan", count),
		CustomersSynced: count,
		LastSync:        time.Now().Format(time.RFC3339),
	})
}

// ExportToDrive uploads the tracking workbook next to the route plan.
func (h *SyncHandler) ExportToDrive(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	count, err := h.Service.ExportToDrive(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordExport()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SyncResponse{
		Success:         true,
		Message:         fmt.Sprintf("Exported tracking for %d customers", count),
		CustomersSynced: count,
		LastSync:        time.Now().Format(time.RFC3339),
	})
}

// Upload imports a route plan workbook sent as multipart form data, for
// setups without a OneDrive connection.
func (h *SyncHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	count, err := h.Service.ImportUpload(r.Context(), header.Filename, content)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordImport()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SyncResponse{
		Success:         true,
		Message:         fmt.Sprintf("Imported %d customers from %s", count, header.Filename),
		CustomersSynced: count,
		LastSync:        time.Now().Format(time.RFC3339),
	})
}

// Download streams the tracking backup workbook to the client.
func (h *SyncHandler) Download(w http.ResponseWriter, r *http.Request) {
	filename, buf, err := h.Service.BuildBackup(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
