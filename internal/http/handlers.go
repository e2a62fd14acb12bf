package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"traspasos/internal/amqp"
	"traspasos/internal/analysis"
	"traspasos/internal/chart"
	"traspasos/internal/core"
	"traspasos/internal/forecast"
	"traspasos/internal/storage"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	sheets, err := s.analyzer.Sheets(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Sheet list error", "error", err)
	}

	var history []storage.ForecastRun
	if lister, ok := s.runs.(RunLister); ok {
		history, err = lister.RecentRuns(r.Context(), 10)
		if err != nil {
			slog.ErrorContext(r.Context(), "Run history error", "error", err)
		}
	}

	data := struct {
		Sheets  []string
		History []storage.ForecastRun
	}{
		Sheets:  sheets,
		History: history,
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	sheet := sanitizeInput(r.URL.Query().Get("sheet"))
	if sheet == "" {
		writeErrorDiv(w, http.StatusBadRequest, "Falta el parámetro sheet")
		return
	}

	table, err := s.analyzer.Records(r.Context(), sheet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := struct {
		Sheet     string
		Conceptos []string
		Records   core.Table
	}{
		Sheet:     sheet,
		Conceptos: table.Conceptos(),
		Records:   table,
	}
	if err := s.templates.ExecuteTemplate(w, "records.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Records template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	sheet := sanitizeInput(r.URL.Query().Get("sheet"))
	concepto := sanitizeInput(r.URL.Query().Get("concepto"))
	if sheet == "" || concepto == "" {
		writeErrorDiv(w, http.StatusBadRequest, "Faltan los parámetros sheet y concepto")
		return
	}
	model, err := forecast.ParseModel(r.URL.Query().Get("model"))
	if err != nil {
		writeErrorDiv(w, http.StatusBadRequest, "Modelo desconocido")
		return
	}

	res, err := s.analyzer.Run(r.Context(), sheet, concepto, model)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.resultCache.Set(analysisKey(sheet, concepto, model), res)
	s.recordRun(r, res)

	query := url.Values{
		"sheet":    {sheet},
		"concepto": {concepto},
		"model":    {string(model)},
	}.Encode()
	data := struct {
		Result      *analysis.Result
		HistoryURL  string
		CombinedURL string
	}{
		Result:      res,
		HistoryURL:  "/chart/history.png?" + query,
		CombinedURL: "/chart/combined.png?" + query,
	}
	if err := s.templates.ExecuteTemplate(w, "analysis.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Analysis template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// recordRun persists and publishes a completed run when persistence is
// configured. Failures are logged, never surfaced to the dashboard.
func (s *Server) recordRun(r *http.Request, res *analysis.Result) {
	if s.runs == nil {
		return
	}
	ctx := r.Context()

	id, err := s.runs.SaveRun(ctx, storage.ForecastRun{
		Sheet:       res.Sheet,
		Concepto:    res.Concepto,
		Model:       string(res.Model),
		RecordCount: len(res.Records),
		Horizon:     len(res.Forecast),
		Elapsed:     res.Elapsed,
		CreatedAt:   res.StartedAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save forecast run", "error", err)
		return
	}

	if s.events == nil {
		return
	}
	msg := amqp.NewRunCompletedMessage(id, res.Sheet, res.Concepto, string(res.Model))
	if err := s.events.PublishRunCompleted(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish run event", "error", err, "run_id", id)
	}
}

func (s *Server) handleHistoryChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "history", func(res *analysis.Result) ([]byte, error) {
		return chart.History(res.Concepto, res.Records.Points())
	})
}

func (s *Server) handleCombinedChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "combined", func(res *analysis.Result) ([]byte, error) {
		return chart.Combined(res.Concepto, res.Records.Points(), res.Forecast)
	})
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, kind string, render func(*analysis.Result) ([]byte, error)) {
	sheet := sanitizeInput(r.URL.Query().Get("sheet"))
	concepto := sanitizeInput(r.URL.Query().Get("concepto"))
	if sheet == "" || concepto == "" {
		http.Error(w, "missing sheet and concepto parameters", http.StatusBadRequest)
		return
	}
	model, err := forecast.ParseModel(r.URL.Query().Get("model"))
	if err != nil {
		http.Error(w, "unknown forecast model", http.StatusBadRequest)
		return
	}

	chartKey := kind + "\x00" + analysisKey(sheet, concepto, model)
	if png, ok := s.chartCache.Get(chartKey); ok {
		servePNG(w, png)
		return
	}

	res, ok := s.resultCache.Get(analysisKey(sheet, concepto, model))
	if !ok {
		res, err = s.analyzer.Run(r.Context(), sheet, concepto, model)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.resultCache.Set(analysisKey(sheet, concepto, model), res)
	}

	png, err := render(res)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart render failed", "error", err, "kind", kind)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	s.chartCache.Set(chartKey, png)
	servePNG(w, png)
}

func servePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprint(len(png)))
	_, _ = w.Write(png)
}

func analysisKey(sheet, concepto string, model forecast.Model) string {
	return strings.Join([]string{sheet, concepto, string(model)}, "\x00")
}

// writeError maps pipeline errors onto HTTP statuses: unknown sheets
// are 404, unfittable series are 422, malformed sheets are 502,
// everything else 500. An empty filter is not a failure; it renders a
// notice with status 200.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fitErr *forecast.FitError
	switch {
	case errors.Is(err, core.ErrSheetNotFound):
		writeErrorDiv(w, http.StatusNotFound, "Hoja no encontrada")
	case errors.Is(err, core.ErrEmptySeries):
		writeNoticeDiv(w, "Sin datos para el concepto seleccionado")
		slog.InfoContext(r.Context(), "Empty selection", "url", r.URL.Path)
		return
	case errors.As(err, &fitErr):
		writeErrorDiv(w, http.StatusUnprocessableEntity, "La serie no admite el modelo seleccionado")
	case errors.Is(err, core.ErrMissingColumn):
		writeErrorDiv(w, http.StatusBadGateway, "La hoja no tiene las columnas esperadas")
	default:
		writeErrorDiv(w, http.StatusInternalServerError, "Error interno")
	}
	slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
}

func writeErrorDiv(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeNoticeDiv(w http.ResponseWriter, msg string) {
	_, _ = w.Write([]byte(`<div class="notice">` + template.HTMLEscapeString(msg) + `</div>`))
}
