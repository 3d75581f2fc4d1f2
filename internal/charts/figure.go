/*
Package charts builds the two comparison bar charts shown for a health record
and renders them as standalone HTML chart documents.
*/
package charts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reference bands. They are compared against the patient's values as written,
// so they go through the same digit extraction.
const (
	NormalHeartRate   = "80"
	LowBloodPressure  = "90/60 mmHg"
	HighBloodPressure = "140/90 mmHg"
)

// Chart kinds, also used as the chart element id.
const (
	KindHeartRate     = "heart_rate"
	KindBloodPressure = "blood_pressure"
)

// Bar colors, alpha blended at 0.5.
const (
	ColorGreen = "rgba(0, 128, 0, 0.5)"
	ColorRed   = "rgba(255, 0, 0, 0.5)"
	ColorBlack = "rgba(0, 0, 0, 0.5)"
)

// ErrNoDigits is returned when a metric contains no digit to plot.
var ErrNoDigits = errors.New("value contains no digits")

// ErrOutOfRange is returned when the extracted digits overflow a float64.
var ErrOutOfRange = errors.New("value too large to plot")

// Bar is one labeled bar of a figure.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Figure describes a chart independently of how it is drawn.
type Figure struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	XLabel    string `json:"x_label"`
	YLabel    string `json:"y_label"`
	TitleSize int    `json:"title_size"`
	LabelSize int    `json:"label_size"`
	TickSize  int    `json:"tick_size"`
	BarWidth  string `json:"bar_width"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bars      []Bar  `json:"bars"`
}

// ExtractDigits keeps only the digits of s and parses them as one number.
//
// "120/80" becomes 12080: systolic and diastolic are concatenated, not split.
// This is a known defect kept so charts stay comparable with earlier output.
func ExtractDigits(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("%q: %w", s, ErrNoDigits)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if errors.Is(err, strconv.ErrRange) {
		// The input is not quoted back; it can be arbitrarily long.
		return 0, fmt.Errorf("%d digits: %w", b.Len(), ErrOutOfRange)
	}
	if err != nil {
		return 0, fmt.Errorf("parse digits: %w", err)
	}
	return v, nil
}

// HeartRate builds the chart comparing the patient's heart rate with the normal value.
func HeartRate(name, heartRate string) (Figure, error) {
	bars, err := bars(
		[]string{"Normal Heart Rate", "Patient Heart Rate"},
		[]string{NormalHeartRate, heartRate},
		[]string{ColorGreen, ColorBlack},
	)
	if err != nil {
		return Figure{}, fmt.Errorf("heart rate chart: %w", err)
	}
	f := baseFigure(KindHeartRate, fmt.Sprintf("Heart Rate Chart for %s", name), 9)
	f.Bars = bars
	return f, nil
}

// BloodPressure builds the chart placing the patient's blood pressure between
// the low and high reference bands.
func BloodPressure(name, bloodPressure string) (Figure, error) {
	bars, err := bars(
		[]string{"Low B.P", "High B.P", "Patient B.P"},
		[]string{LowBloodPressure, HighBloodPressure, bloodPressure},
		[]string{ColorRed, ColorGreen, ColorBlack},
	)
	if err != nil {
		return Figure{}, fmt.Errorf("blood pressure chart: %w", err)
	}
	f := baseFigure(KindBloodPressure, fmt.Sprintf("Blood Pressure Chart for %s", name), 10)
	f.Bars = bars
	return f, nil
}

func baseFigure(kind, title string, titleSize int) Figure {
	return Figure{
		Kind:      kind,
		Title:     title,
		XLabel:    "Metrics",
		YLabel:    "Values",
		TitleSize: titleSize,
		LabelSize: 7,
		TickSize:  5,
		BarWidth:  "20%",
		Width:     400,
		Height:    300,
	}
}

func bars(labels, raw, colors []string) ([]Bar, error) {
	out := make([]Bar, 0, len(labels))
	for i, label := range labels {
		v, err := ExtractDigits(raw[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		out = append(out, Bar{Label: label, Value: v, Color: colors[i]})
	}
	return out, nil
}

// key identifies a figure for caching.
func (f Figure) key() string {
	var b strings.Builder
	b.WriteString(f.Kind)
	b.WriteByte('|')
	b.WriteString(f.Title)
	for _, bar := range f.Bars {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(bar.Value, 'g', -1, 64))
	}
	return b.String()
}
