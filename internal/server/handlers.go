package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/protofab/protofab/internal/types"
)

// definitionSummary is the list-view shape of a definition.
type definitionSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	HasBehavior bool   `json:"hasBehavior"`
	Settings    int    `json:"settings"`
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"definitions": s.registry.Count(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func (s *PreviewServer) handleDefinitions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := s.registry.GetAll()
	summaries := make([]definitionSummary, 0, len(all))
	for _, def := range all {
		summaries = append(summaries, summarize(def))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"definitions": summaries,
		"count":       len(summaries),
	})
}

func (s *PreviewServer) handleDefinition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/definitions/")
	if name == "" {
		http.Error(w, "Definition name required", http.StatusBadRequest)
		return
	}

	def, ok := s.registry.Get(name)
	if !ok {
		http.Error(w, "Definition not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

func (s *PreviewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/preview/")
	if name == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	def, ok := s.registry.Get(name)
	if !ok {
		http.Error(w, "Definition not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(previewShell(def, s.config.Preview.Theme)))
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	// Honor the configured default definition when one is set.
	if def := s.config.Preview.Default; def != "" {
		if _, ok := s.registry.Get(def); ok {
			http.Redirect(w, r, "/preview/"+def, http.StatusFound)
			return
		}
	}

	all := s.registry.GetAll()
	summaries := make([]definitionSummary, 0, len(all))
	for _, def := range all {
		summaries = append(summaries, summarize(def))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage(summaries, s.config.Preview.Theme)))
}

func summarize(def *types.CustomComponentDefinition) definitionSummary {
	return definitionSummary{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		HasBehavior: def.Behavior != nil,
		Settings:    len(def.Settings),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
