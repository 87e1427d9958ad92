package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	textextract "github.com/jpfrost94/universal-text-extractor"
	"github.com/jpfrost94/universal-text-extractor/imageprep"
)

type handler struct {
	svc *textextract.Service

	// Web-layer knobs; empty values disable the feature.
	apiKey      string
	corsOrigins string
}

func newHandler(svc *textextract.Service, apiKey, corsOrigins string) *handler {
	return &handler{svc: svc, apiKey: apiKey, corsOrigins: corsOrigins}
}

// POST /extract
// Accepts a multipart file upload; form or query parameters tune the
// extraction: file_type, ocr, ocr_language, handwriting, preprocess.
func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(100 << 20); err != nil { // 100MB max
		writeError(w, http.StatusBadRequest, "expected multipart file upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	// Sanitise filename to prevent path traversal.
	safeName := filepath.Base(header.Filename)
	if safeName == "." || safeName == string(filepath.Separator) {
		safeName = "upload"
	}

	// One temp dir per request: concurrent uploads sharing a client
	// filename must not see each other's bytes. The original name is
	// kept inside it so type detection still has the extension.
	tmpDir, err := os.MkdirTemp("", "textextract-upload-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process file")
		slog.Error("creating temp dir", "error", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, safeName)
	dst, err := os.Create(tmpPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process file")
		slog.Error("creating temp file", "error", err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeError(w, http.StatusInternalServerError, "failed to save file")
		slog.Error("saving uploaded file", "error", err)
		return
	}
	dst.Close()

	req := textextract.Request{
		Path:        tmpPath,
		FileType:    r.FormValue("file_type"),
		OCRLanguage: r.FormValue("ocr_language"),
		Handwriting: r.FormValue("handwriting") == "true",
	}
	if v := r.FormValue("ocr"); v != "" {
		useOCR := v == "true" || v == "1"
		req.UseOCR = &useOCR
	}
	if v := r.FormValue("preprocess"); v == "false" || v == "0" {
		req.Preprocess = &imageprep.Params{}
	}

	res, err := h.svc.ExtractTextFromFile(ctx, req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "extraction failed")
		slog.Error("extract error", "filename", safeName, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filename":  safeName,
		"file_type": res.FileType,
		"category":  res.Category,
		"text":      res.Text,
		"preview":   textextract.Preview(res.Text),
		"ocr_used":  res.OCRUsed,
		"outcome":   res.Outcome,
		"logs":      res.Logs,
	})
}

// GET /formats
func (h *handler) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats": h.svc.SupportedFormats(),
	})
}

// GET /stats
func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Analytics()
	if stats == nil {
		writeError(w, http.StatusNotFound, "analytics disabled")
		return
	}

	summary, err := stats.Summarize(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize stats")
		slog.Error("stats error", "error", err)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("recent"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	recent, err := stats.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load recent extractions")
		slog.Error("stats error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"recent":  recent,
	})
}

// GET /stats/export
func (h *handler) handleStatsExport(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Analytics()
	if stats == nil {
		writeError(w, http.StatusNotFound, "analytics disabled")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="extractions.csv"`)
	if err := stats.ExportCSV(r.Context(), w); err != nil {
		slog.Error("stats export error", "error", err)
	}
}

// DELETE /stats
func (h *handler) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Analytics()
	if stats == nil {
		writeError(w, http.StatusNotFound, "analytics disabled")
		return
	}

	if err := stats.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset stats")
		slog.Error("stats reset error", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// GET /health
// Verifies the extraction pipeline end to end on a tiny in-memory file
// and reports probed capabilities. Any check failure returns 503.
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	probe := filepath.Join(os.TempDir(), fmt.Sprintf("health-%d.txt", time.Now().UnixNano()))
	if err := os.WriteFile(probe, []byte("health check"), 0o600); err != nil {
		checks["extractor"] = "failed: " + err.Error()
		healthy = false
	} else {
		defer os.Remove(probe)
		res, err := h.svc.ExtractTextFromFile(ctx, textextract.Request{Path: probe})
		switch {
		case err != nil:
			checks["extractor"] = "failed: " + err.Error()
			healthy = false
		case res.Text != "health check":
			checks["extractor"] = "failed: unexpected result"
			healthy = false
		default:
			checks["extractor"] = "ok"
		}
	}

	if stats := h.svc.Analytics(); stats != nil {
		if _, err := stats.Summarize(ctx); err != nil {
			checks["analytics"] = "failed: " + err.Error()
			healthy = false
		} else {
			checks["analytics"] = "ok"
		}
	} else {
		checks["analytics"] = "disabled"
	}

	caps := h.svc.Capabilities()
	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unhealthy"
	}

	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"capabilities": map[string]interface{}{
			"ocr_available": caps.OCRAvailable(),
			"ocr_backends":  caps.OCRBackends(),
			"pdftoppm":      caps.PDFToPPM,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
