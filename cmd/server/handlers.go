package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"claimsight"
)

type handler struct {
	app            *claimsight.App
	maxUploadBytes int64
}

func newHandler(app *claimsight.App, maxUploadBytes int64) *handler {
	return &handler{app: app, maxUploadBytes: maxUploadBytes}
}

func newMux(h *handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /api/extract", h.handleExtract)
	mux.HandleFunc("POST /api/ask", h.handleAsk)
	mux.HandleFunc("GET /api/graph", h.handleGraph)
	mux.HandleFunc("GET /api/graph/path", h.handleGraphPath)
	mux.HandleFunc("GET /api/graph/neighbors", h.handleGraphNeighbors)
	mux.HandleFunc("GET /health", h.handleHealth)
	return mux
}

// POST /api/extract
// Multipart upload of a claim document; returns the extracted ClaimRecord.
func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with 'file'")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	// Sanitise filename to prevent path traversal.
	safeName := filepath.Base(header.Filename)

	rec, err := h.app.ExtractBytes(r.Context(), safeName, data)
	if err != nil {
		switch {
		case errors.Is(err, claimsight.ErrUnsupportedFormat):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported document format")
		case errors.Is(err, claimsight.ErrDecode):
			writeError(w, http.StatusUnprocessableEntity, "document could not be decoded")
		default:
			writeError(w, http.StatusInternalServerError, "extraction failed")
			slog.Error("extract error", "filename", safeName, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// POST /api/ask
func (h *handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.app.Ask(r.Context(), req.Question)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "answering failed")
		slog.Error("ask error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":    result,
		"threshold": h.app.Threshold(),
	})
}

// GET /api/graph
func (h *handler) handleGraph(w http.ResponseWriter, r *http.Request) {
	nodes, edges := h.app.Graph().Export()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nodes": nodes,
		"edges": edges,
	})
}

// GET /api/graph/path?from=&to=
// Unknown ids and unreachable pairs are empty results, not errors.
func (h *handler) handleGraphPath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	path := h.app.Graph().FindPath(from, to)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":  path,
		"found": path != nil,
	})
}

// GET /api/graph/neighbors?id=
func (h *handler) handleGraphNeighbors(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	neighbors, err := h.app.Graph().Neighbors(id)
	if err != nil {
		if errors.Is(err, claimsight.ErrUnknownNode) {
			writeError(w, http.StatusNotFound, "unknown node id")
			return
		}
		writeError(w, http.StatusInternalServerError, "neighbor lookup failed")
		slog.Error("neighbors error", "id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"neighbors": neighbors,
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
