package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"health-assistant/internal/charts"
	"health-assistant/internal/recommendation"
	"health-assistant/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Requester     = (*MockRequester)(nil)
	_ ChartRenderer = (*MockRenderer)(nil)
)

type MockRequester struct {
	RequestFunc func(ctx context.Context, rec record.HealthRecord) recommendation.Result
	CallCount   int32
}

func (m *MockRequester) Request(ctx context.Context, rec record.HealthRecord) recommendation.Result {
	atomic.AddInt32(&m.CallCount, 1)
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, rec)
	}
	return recommendation.Result{Status: recommendation.StatusOK, Text: "X"}
}

type MockRenderer struct {
	HTMLFunc func(f charts.Figure) ([]byte, error)

	mu    sync.Mutex
	Kinds []string
}

func (m *MockRenderer) HTML(f charts.Figure) ([]byte, error) {
	m.mu.Lock()
	m.Kinds = append(m.Kinds, f.Kind)
	m.mu.Unlock()
	if m.HTMLFunc != nil {
		return m.HTMLFunc(f)
	}
	return []byte("<html></html>"), nil
}

func completeRecord() record.HealthRecord {
	return record.HealthRecord{
		Name:          "Mei",
		Age:           "35",
		BloodPressure: "118/76",
		HeartRate:     "64",
	}
}

func TestRedrawIncompleteRecordRendersNothing(t *testing.T) {
	for _, key := range []string{"name", "age", "blood_pressure", "heart_rate"} {
		rec := completeRecord()
		rec.Problems = "cough"
		rec.Set(key, "")

		renderer := &MockRenderer{}
		requester := &MockRequester{}
		svc := NewService(requester, renderer)

		view := svc.Submit(context.Background(), rec)
		assert.False(t, view.Ready, key)
		assert.Empty(t, view.Charts, key)
		assert.Empty(t, view.Details, key)
		assert.Nil(t, view.Recommendation, key)
		assert.Equal(t, rec, view.Record, key)
		assert.Equal(t, int32(0), requester.CallCount, key)
		assert.Empty(t, renderer.Kinds, key)
	}
}

func TestRedrawCompleteRecord(t *testing.T) {
	renderer := &MockRenderer{}
	requester := &MockRequester{}
	svc := NewService(requester, renderer)

	view := svc.Redraw(context.Background(), completeRecord())
	require.True(t, view.Ready)
	assert.Equal(t, "Health Details for Mei:", view.Heading)
	assert.Len(t, view.Details, 4, "problems omitted when empty")
	assert.Nil(t, view.Recommendation)
	assert.Equal(t, int32(0), requester.CallCount, "redraw never requests")

	require.Len(t, view.Charts, 2)
	hr, bp := view.Charts[0], view.Charts[1]
	assert.Equal(t, charts.KindHeartRate, hr.Kind)
	assert.Equal(t, "/charts/heart-rate?heart_rate=64&name=Mei", hr.URL)
	require.NotNil(t, hr.Figure)
	assert.Len(t, hr.Figure.Bars, 2)
	assert.Equal(t, 80.0, hr.Figure.Bars[0].Value)

	assert.Equal(t, charts.KindBloodPressure, bp.Kind)
	assert.Equal(t, "/charts/blood-pressure?blood_pressure=118%2F76&name=Mei", bp.URL)
	require.NotNil(t, bp.Figure)
	assert.Len(t, bp.Figure.Bars, 3)
	assert.Equal(t, 11876.0, bp.Figure.Bars[2].Value)

	assert.ElementsMatch(t, []string{charts.KindHeartRate, charts.KindBloodPressure}, renderer.Kinds)
}

func TestRedrawNonNumericMetricOnlyDropsThatChart(t *testing.T) {
	rec := completeRecord()
	rec.HeartRate = "steady"

	svc := NewService(&MockRequester{}, &MockRenderer{})
	view := svc.Redraw(context.Background(), rec)

	require.True(t, view.Ready)
	require.Len(t, view.Charts, 2)
	assert.Empty(t, view.Charts[0].URL)
	assert.Nil(t, view.Charts[0].Figure)
	assert.Contains(t, view.Charts[0].Error, "no digits")
	assert.Empty(t, view.Charts[1].Error)
	assert.NotEmpty(t, view.Charts[1].URL)
}

func TestRedrawRenderFailureIsReported(t *testing.T) {
	renderer := &MockRenderer{HTMLFunc: func(f charts.Figure) ([]byte, error) {
		if f.Kind == charts.KindBloodPressure {
			return nil, errors.New("boom")
		}
		return []byte("ok"), nil
	}}
	svc := NewService(&MockRequester{}, renderer)

	view := svc.Redraw(context.Background(), completeRecord())
	assert.Empty(t, view.Charts[0].Error)
	assert.Equal(t, "boom", view.Charts[1].Error)
	assert.Empty(t, view.Charts[1].URL)
}

func TestSubmitMakesExactlyOneRequest(t *testing.T) {
	var got record.HealthRecord
	requester := &MockRequester{RequestFunc: func(_ context.Context, rec record.HealthRecord) recommendation.Result {
		got = rec
		return recommendation.Result{Status: recommendation.StatusOK, Text: "X"}
	}}
	svc := NewService(requester, &MockRenderer{})

	rec := completeRecord()
	rec.Problems = "fatigue"
	view := svc.Submit(context.Background(), rec)

	assert.Equal(t, int32(1), requester.CallCount)
	assert.Equal(t, rec, got)
	require.NotNil(t, view.Recommendation)
	assert.Equal(t, "X", view.Recommendation.Text)
	assert.Len(t, view.Details, 5)
	assert.Len(t, view.Charts, 2)
}

func TestSubmitCarriesFailure(t *testing.T) {
	requester := &MockRequester{RequestFunc: func(context.Context, record.HealthRecord) recommendation.Result {
		return recommendation.Result{Status: recommendation.StatusFailed, Reason: "quota exceeded"}
	}}
	svc := NewService(requester, &MockRenderer{})

	view := svc.Submit(context.Background(), completeRecord())
	require.NotNil(t, view.Recommendation)
	assert.Equal(t, recommendation.StatusFailed, view.Recommendation.Status)
	assert.Equal(t, "quota exceeded", view.Recommendation.Reason)
}
