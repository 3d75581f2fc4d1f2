/*
Package assistant answers the two user actions of the health form.

Redraw runs on every field change and returns what the page should show.
Submit does the same and additionally asks for a recommendation.
Both are stateless: everything is derived from the record passed in.
*/
package assistant

import (
	"context"
	"net/url"

	"health-assistant/internal/charts"
	"health-assistant/internal/recommendation"
	"health-assistant/internal/record"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Chart document routes.
const (
	HeartRateChartPath     = "/charts/heart-rate"
	BloodPressureChartPath = "/charts/blood-pressure"
)

// Requester asks for a recommendation on a complete record.
type Requester interface {
	Request(ctx context.Context, rec record.HealthRecord) recommendation.Result
}

// ChartRenderer renders a figure to an HTML document.
type ChartRenderer interface {
	HTML(f charts.Figure) ([]byte, error)
}

// ChartView is one chart on the page. Exactly one of URL and Error is set.
type ChartView struct {
	Kind   string         `json:"kind"`
	URL    string         `json:"url,omitempty"`
	Figure *charts.Figure `json:"figure,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// View is the full set of render instructions for one action.
type View struct {
	Record         record.HealthRecord    `json:"record"`
	Ready          bool                   `json:"ready"`
	Heading        string                 `json:"heading,omitempty"`
	Details        []record.Detail        `json:"details,omitempty"`
	Charts         []ChartView            `json:"charts,omitempty"`
	Recommendation *recommendation.Result `json:"recommendation,omitempty"`
}

// Service implements the form actions.
type Service struct {
	requester Requester
	renderer  ChartRenderer
}

// NewService wires the requester and chart renderer.
func NewService(requester Requester, renderer ChartRenderer) *Service {
	return &Service{requester: requester, renderer: renderer}
}

// Redraw returns the view for the current form state. An incomplete record
// yields a view with the record only: no summary, no charts.
func (s *Service) Redraw(ctx context.Context, rec record.HealthRecord) View {
	view := View{Record: rec}
	if !rec.Complete() {
		return view
	}

	view.Ready = true
	view.Heading = rec.Heading()
	view.Details = rec.Details()

	hr, hrErr := charts.HeartRate(rec.Name, rec.HeartRate)
	bp, bpErr := charts.BloodPressure(rec.Name, rec.BloodPressure)
	view.Charts = []ChartView{
		chartView(charts.KindHeartRate, hr, hrErr, HeartRateChartURL(rec)),
		chartView(charts.KindBloodPressure, bp, bpErr, BloodPressureChartURL(rec)),
	}

	// Warm the cache so the chart routes answer from memory.
	var g errgroup.Group
	for i := range view.Charts {
		cv := &view.Charts[i]
		if cv.Figure == nil {
			continue
		}
		g.Go(func() error {
			if _, err := s.renderer.HTML(*cv.Figure); err != nil {
				cv.URL = ""
				cv.Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, cv := range view.Charts {
		if cv.Error != "" {
			log.Ctx(ctx).Warn().Str("chart", cv.Kind).Str("error", cv.Error).Msg("Chart not rendered")
		}
	}
	return view
}

// Submit redraws and, when the record is complete, makes exactly one
// recommendation request.
func (s *Service) Submit(ctx context.Context, rec record.HealthRecord) View {
	view := s.Redraw(ctx, rec)
	if !view.Ready {
		return view
	}
	res := s.requester.Request(ctx, rec)
	view.Recommendation = &res
	return view
}

// HeartRateChartURL is the chart route for rec's heart rate.
func HeartRateChartURL(rec record.HealthRecord) string {
	return HeartRateChartPath + "?" + url.Values{
		"name":       {rec.Name},
		"heart_rate": {rec.HeartRate},
	}.Encode()
}

// BloodPressureChartURL is the chart route for rec's blood pressure.
func BloodPressureChartURL(rec record.HealthRecord) string {
	return BloodPressureChartPath + "?" + url.Values{
		"name":           {rec.Name},
		"blood_pressure": {rec.BloodPressure},
	}.Encode()
}

func chartView(kind string, f charts.Figure, err error, chartURL string) ChartView {
	if err != nil {
		return ChartView{Kind: kind, Error: err.Error()}
	}
	return ChartView{Kind: kind, URL: chartURL, Figure: &f}
}
