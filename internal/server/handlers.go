package server

import (
	"errors"
	"net/http"

	"health-assistant/internal/assistant"
	"health-assistant/internal/charts"
	"health-assistant/internal/record"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const formSessionName = "health-form"

// Form actions posted by the page buttons.
const (
	actionUpdate    = "update"
	actionRecommend = "recommend"
)

// FieldValue is a form input together with its current value.
type FieldValue struct {
	record.Field
	Value string
}

// PageData is what index.html renders.
type PageData struct {
	Fields []FieldValue
	View   assistant.View
}

func newPageData(view assistant.View) PageData {
	fields := record.Fields()
	values := make([]FieldValue, 0, len(fields))
	for _, f := range fields {
		values = append(values, FieldValue{Field: f, Value: view.Record.Value(f.Key)})
	}
	return PageData{Fields: values, View: view}
}

// requestLogger returns the logger set by LoggerMiddleware.
func requestLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get("logger").(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}

/* ====================================================================
                   		Form Page Handlers
==================================================================== */

// indexHandler renders the form with the last state kept in the session.
func (s *Server) indexHandler(c echo.Context) error {
	rec := s.loadRecord(c)
	view := s.assistant.Redraw(c.Request().Context(), rec)
	return c.Render(http.StatusOK, "index.html", newPageData(view))
}

// formHandler handles both buttons of the form.
func (s *Server) formHandler(c echo.Context) error {
	logger := requestLogger(c)
	ctx := c.Request().Context()

	var rec record.HealthRecord
	if err := c.Bind(&rec); err != nil {
		logger.Error().Err(err).Msg("Failed to bind form")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid form data"})
	}
	s.saveRecord(c, rec)

	var view assistant.View
	switch action := c.FormValue("action"); action {
	case actionRecommend:
		view = s.assistant.Submit(ctx, rec)
	case actionUpdate, "":
		view = s.assistant.Redraw(ctx, rec)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown action: " + action})
	}

	return c.Render(http.StatusOK, "index.html", newPageData(view))
}

func (s *Server) loadRecord(c echo.Context) record.HealthRecord {
	var rec record.HealthRecord
	sess, err := s.store.Get(c.Request(), formSessionName)
	if err != nil {
		// A stale or tampered cookie just means an empty form.
		requestLogger(c).Debug().Err(err).Msg("Discarding form session")
		return rec
	}
	for _, f := range record.Fields() {
		if v, ok := sess.Values[f.Key].(string); ok {
			rec.Set(f.Key, v)
		}
	}
	return rec
}

func (s *Server) saveRecord(c echo.Context, rec record.HealthRecord) {
	sess, err := s.store.Get(c.Request(), formSessionName)
	if err != nil && sess == nil {
		requestLogger(c).Warn().Err(err).Msg("Failed to open form session")
		return
	}
	sess.Values = make(map[interface{}]interface{})
	for _, f := range record.Fields() {
		sess.Values[f.Key] = rec.Value(f.Key)
	}
	if err := sessions.Save(c.Request(), c.Response()); err != nil {
		requestLogger(c).Warn().Err(err).Msg("Failed to save form session")
	}
}

/* ====================================================================
                   		Chart Handlers
==================================================================== */

func (s *Server) heartRateChartHandler(c echo.Context) error {
	f, err := charts.HeartRate(c.QueryParam("name"), c.QueryParam("heart_rate"))
	return s.writeChart(c, f, err)
}

func (s *Server) bloodPressureChartHandler(c echo.Context) error {
	f, err := charts.BloodPressure(c.QueryParam("name"), c.QueryParam("blood_pressure"))
	return s.writeChart(c, f, err)
}

func (s *Server) writeChart(c echo.Context, f charts.Figure, err error) error {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, charts.ErrNoDigits) || errors.Is(err, charts.ErrOutOfRange) {
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	doc, err := s.charts.HTML(f)
	if err != nil {
		requestLogger(c).Error().Err(err).Str("chart", f.Kind).Msg("Failed to render chart")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to render chart"})
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.HTMLBlob(http.StatusOK, doc)
}

/* ====================================================================
                   		JSON API Handlers
==================================================================== */

// redrawHandler returns the render instructions for a field change.
func (s *Server) redrawHandler(c echo.Context) error {
	var rec record.HealthRecord
	if err := c.Bind(&rec); err != nil {
		requestLogger(c).Error().Err(err).Msg("Failed to bind request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	return c.JSON(http.StatusOK, s.assistant.Redraw(c.Request().Context(), rec))
}

// recommendationHandler returns the render instructions for the submit button.
func (s *Server) recommendationHandler(c echo.Context) error {
	logger := requestLogger(c)

	var rec record.HealthRecord
	if err := c.Bind(&rec); err != nil {
		logger.Error().Err(err).Msg("Failed to bind request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	view := s.assistant.Submit(c.Request().Context(), rec)
	if view.Recommendation != nil {
		logger.Info().Str("status", string(view.Recommendation.Status)).Msg("Processed recommendation request")
	}
	return c.JSON(http.StatusOK, view)
}
