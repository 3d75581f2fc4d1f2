package server

import (
	"html/template"
	"io"
	"net/http"

	"health-assistant/internal/assistant"
	"health-assistant/internal/utility"
	"health-assistant/web"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(LoggerMiddleware)

	e.StaticFS("/static", echo.MustSubFS(web.Public, "public"))

	e.Renderer = &TemplateRenderer{
		templates: template.Must(template.ParseFS(web.Templates, "templates/*.html")),
	}

	e.GET("/health", s.healthHandler)

	// Form page
	e.GET("/", s.indexHandler)
	e.POST("/", s.formHandler)

	// Chart documents, embedded by the page
	e.GET(assistant.HeartRateChartPath, s.heartRateChartHandler)
	e.GET(assistant.BloodPressureChartPath, s.bloodPressureChartHandler)

	// JSON API
	api := e.Group("/api")
	api.POST("/redraw", s.redrawHandler)
	api.POST("/recommendation", s.recommendationHandler)

	// Live redraw
	e.GET("/ws", s.formSocketHandler)

	return e
}

// LoggerMiddleware tags every request with an id and a child logger, available
// both from the echo context and from the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("ip", utility.GetRealIP(c)).
			Logger()

		c.Set("logger", &logger)
		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

		return next(c)
	}
}
