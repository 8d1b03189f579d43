package main

import (
	_ "embed"
	"net/http"
)

//go:embed ui/index.html
var indexHTML []byte

// GET /
func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
