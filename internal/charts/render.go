package charts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Render writes f as a standalone HTML chart document.
func Render(w io.Writer, f Figure) error {
	labels := make([]string, 0, len(f.Bars))
	data := make([]opts.BarData, 0, len(f.Bars))
	for _, b := range f.Bars {
		labels = append(labels, b.Label)
		data = append(data, opts.BarData{
			Name:      b.Label,
			Value:     b.Value,
			ItemStyle: &opts.ItemStyle{Color: b.Color},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: f.Title,
			ChartID:   f.Kind,
			Width:     fmt.Sprintf("%dpx", f.Width),
			Height:    fmt.Sprintf("%dpx", f.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      f.Title,
			Left:       "center",
			TitleStyle: &opts.TextStyle{FontSize: f.TitleSize},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: f.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: f.YLabel}),
	)

	// Axis name sizes, tick sizes and bar width have no typed option; apply them
	// once the chart exists.
	bar.AddJSFuncs(fmt.Sprintf(
		"goecharts_%s.setOption({xAxis:{nameTextStyle:{fontSize:%d},axisLabel:{fontSize:%d}},yAxis:{nameTextStyle:{fontSize:%d},axisLabel:{fontSize:%d}},series:[{barWidth:'%s'}]});",
		f.Kind, f.LabelSize, f.TickSize, f.LabelSize, f.TickSize, f.BarWidth,
	))

	bar.SetXAxis(labels).AddSeries(f.YLabel, data)

	return bar.Render(w)
}

// Renderer renders figures once and serves repeats from an LRU cache.
// Concurrent requests for the same figure share one render.
type Renderer struct {
	cache *lru.Cache[string, []byte]
	group singleflight.Group
}

// NewRenderer returns a Renderer caching up to size documents.
func NewRenderer(size int) (*Renderer, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("chart cache: %w", err)
	}
	return &Renderer{cache: cache}, nil
}

// HTML returns the rendered document for f.
func (r *Renderer) HTML(f Figure) ([]byte, error) {
	key := f.key()
	if doc, ok := r.cache.Get(key); ok {
		return doc, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		var buf bytes.Buffer
		if err := Render(&buf, f); err != nil {
			return nil, fmt.Errorf("render %s: %w", f.Kind, err)
		}
		doc := buf.Bytes()
		r.cache.Add(key, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Len reports how many documents are cached.
func (r *Renderer) Len() int {
	return r.cache.Len()
}
