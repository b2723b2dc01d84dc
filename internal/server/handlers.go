package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mailsense/mailsense/internal/core/domain"
	"github.com/mailsense/mailsense/internal/core/rules"
	"github.com/mailsense/mailsense/internal/core/templates"
	"github.com/mailsense/mailsense/internal/intake"
)

const previewMaxChars = 1500

type resultPage struct {
	Error        string
	Result       *domain.Result
	Category     string
	EmailPreview string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "index.html", nil)
}

func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderPage(w, "result.html", resultPage{Error: "Não foi possível ler o formulário enviado."})

		return
	}

	emailText := r.FormValue("email_text")

	filename := ""

	var fileData []byte

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close() //nolint:errcheck // read-only upload handle

		filename = header.Filename
		fileData, _ = io.ReadAll(file) //nolint:errcheck // partial reads degrade to empty input
	}

	text := intake.Extract(emailText, filename, fileData, s.maxChars)
	if text == "" {
		s.renderPage(w, "result.html", resultPage{Error: "Nenhum conteúdo extraído do email."})

		return
	}

	result := s.orchestrator.Classify(r.Context(), text)

	s.renderPage(w, "result.html", resultPage{
		Result:       &result,
		Category:     result.Category.Label(),
		EmailPreview: preview(text),
	})
}

type classifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")

		return
	}

	text := intake.Extract(req.Text, "", nil, s.maxChars)
	result := s.orchestrator.Classify(r.Context(), text)

	writeJSON(r, w, http.StatusOK, result)
}

type addRuleRequest struct {
	Name             string   `json:"name"`
	Patterns         []string `json:"patterns"`
	Priority         int      `json:"priority"`
	Intent           string   `json:"intent"`
	CategoryOverride string   `json:"category_override,omitempty"`
	MinHits          int      `json:"min_hits,omitempty"`
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var req addRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")

		return
	}

	rule := rules.Rule{
		Name:     req.Name,
		Patterns: req.Patterns,
		Priority: req.Priority,
		Intent:   req.Intent,
		MinHits:  req.MinHits,
	}

	if req.CategoryOverride != "" {
		category := domain.Category(strings.ToLower(req.CategoryOverride))
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "category_override must be productive or unproductive")

			return
		}

		rule.CategoryOverride = &category
	}

	if err := s.engine.Add(rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	zerolog.Ctx(r.Context()).Info().Str("rule", rule.Name).Msg("rule registered")

	writeJSON(r, w, http.StatusCreated, map[string]string{"status": "registered"})
}

type setTemplateRequest struct {
	Intent   string `json:"intent"`
	Tone     string `json:"tone,omitempty"`
	Template string `json:"template"`
}

func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	var req setTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")

		return
	}

	if req.Intent == "" || req.Template == "" {
		writeError(w, http.StatusBadRequest, "intent and template are required")

		return
	}

	tone := templates.ToneFriendly
	if req.Tone != "" {
		tone = templates.Tone(req.Tone)
		if !tone.Valid() {
			writeError(w, http.StatusBadRequest, "tone must be friendly, formal or concise")

			return
		}
	}

	s.catalog.Set(req.Intent, tone, req.Template)

	zerolog.Ctx(r.Context()).Info().Str("intent", req.Intent).Str("tone", string(tone)).Msg("template registered")

	writeJSON(r, w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("failed to render page")
	}
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewMaxChars {
		return text
	}

	return string(runes[:previewMaxChars])
}
