package typing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func startSession(t *testing.T, opts ...SessionOption) (*Session, context.CancelFunc) {
	t.Helper()
	s := NewSession(newTestEngine(DefaultConfig()), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s, cancel
}

func TestSession_SubmitAndEdit(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()
	d := letter(t, "D")

	var st Status
	var err error
	for i := 0; i < DefaultConfig().StabilityThreshold; i++ {
		st, err = s.Submit(ctx, d)
		require.NoError(t, err)
	}
	assert.Equal(t, "D", st.Text)
	assert.Equal(t, "D", s.Status().Text)

	st, err = s.Edit(ctx, EditSpace)
	require.NoError(t, err)
	assert.Equal(t, "D ", st.Text)

	_, err = s.Edit(ctx, EditOp("nope"))
	assert.ErrorIs(t, err, ErrUnknownEdit)
}

func TestSession_ListenersSeeEveryStatusInOrder(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()

	var mu sync.Mutex
	var seen []int
	s.OnStatus(func(st Status) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.Stable)
	})

	d := letter(t, "D")
	for i := 0; i < 5; i++ {
		_, err := s.Submit(ctx, d)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestSession_ConcurrentProducers(t *testing.T) {
	s, _ := startSession(t)
	ctx := context.Background()
	d := letter(t, "D")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_, _ = s.Submit(ctx, d)
				_, _ = s.Edit(ctx, EditBackspace)
			}
		}()
	}
	wg.Wait()

	st := s.Status()
	assert.True(t, st.Present)
}

func TestSession_ClosedAfterRun(t *testing.T) {
	s, cancel := startSession(t)
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not stop")
	}

	_, err := s.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Edit(context.Background(), EditClear)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_SubmitHonorsContext(t *testing.T) {
	s := NewSession(newTestEngine(DefaultConfig()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	require.NoError(t, err)

	s, _ := startSession(t, WithMetrics(m))
	ctx := context.Background()
	d := letter(t, "D")
	for i := 0; i < DefaultConfig().StabilityThreshold; i++ {
		_, err := s.Submit(ctx, d)
		require.NoError(t, err)
	}
	_, err = s.Submit(ctx, (*detector.HandLandmarks)(nil))
	require.NoError(t, err)
	_, err = s.Edit(ctx, EditClear)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			if sum, ok := met.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[met.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(16), totals["signetic.frames"])
	assert.Equal(t, int64(1), totals["signetic.commits"])
	assert.Equal(t, int64(1), totals["signetic.auto_spaces"])
	assert.Equal(t, int64(1), totals["signetic.edits"])
}
