// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rakshitsawarn/brandsight/internal/app"
	"github.com/rakshitsawarn/brandsight/internal/domain"
)

type Handlers struct {
	Svc     *app.AnalysisService
	Reports domain.ReportRepository // optional; /v1/reports 404s when absent
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.root)
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/analyze", h.analyze)
	s.mux.Get("/v1/reports/{uid}", h.listReports)
}

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Brand Analyzer NLP API is running!"})
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	// reviews may be empty but must be present; description is required
	if req.Reviews == nil || req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'reviews' or 'description' field"})
		return
	}

	report, err := h.Svc.Analyze(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("uid", req.UID).Msg("analysis failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) listReports(w http.ResponseWriter, r *http.Request) {
	if h.Reports == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report history is not enabled"})
		return
	}
	uid := chi.URLParam(r, "uid")

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer between 1 and 200"})
			return
		}
		limit = l
	}

	reports, err := h.Reports.ListReports(r.Context(), uid, limit)
	if err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("list reports failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	// payload is stored JSON; re-emit it raw instead of double-encoding
	type row struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		CreatedAt string          `json:"created_at"`
		Report    json.RawMessage `json:"report"`
	}
	rows := make([]row, 0, len(reports))
	for _, rep := range reports {
		rows = append(rows, row{
			ID:        rep.ID,
			Title:     rep.Title,
			CreatedAt: rep.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Report:    json.RawMessage(rep.Payload),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"uid": uid, "reports": rows})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}
