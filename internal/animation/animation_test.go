package animation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata/econtest"
	"github.com/Ross-123/US-Economic-Dashboard/internal/infra"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

func table(t *testing.T) *timeseries.Table {
	t.Helper()
	tbl, err := econdata.Clean(econtest.RawTable(econdata.SeriesIDs()))
	require.NoError(t, err)
	return tbl
}

// longTable has monthly rows from 1970 through 2023.
func longTable() *timeseries.Table {
	var dates []time.Time
	for d := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() < 2024; d = d.AddDate(0, 1, 0) {
		dates = append(dates, d)
	}
	cols := make([][]float64, 4)
	for c := range cols {
		cols[c] = make([]float64, len(dates))
		for i := range dates {
			cols[c][i] = float64(1000 + i)
		}
	}
	return &timeseries.Table{Dates: dates, Columns: econdata.Names(), Values: cols}
}

func TestValidateSpeed(t *testing.T) {
	for _, s := range []int{1, 5, 10} {
		assert.NoError(t, ValidateSpeed(s))
	}
	for _, s := range []int{0, -1, 11} {
		assert.ErrorIs(t, ValidateSpeed(s), ErrInvalidSpeed)
	}
	_, err := NewStepper(table(t), 11, 0)
	assert.ErrorIs(t, err, ErrInvalidSpeed)
}

func TestStride(t *testing.T) {
	tests := []struct {
		frames, speed, want int
	}{
		{40, 10, 1},
		{0, 1, 1},
		{216, 1, 4},
		{216, 2, 2},
		{216, 5, 1},
		{1000, 1, 20},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Stride(tc.frames, tc.speed, DefaultFramesPerSpeed), "frames=%d speed=%d", tc.frames, tc.speed)
	}
}

func TestDelay(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, Delay(DefaultBaseDelay, 1))
	assert.Equal(t, 100*time.Millisecond, Delay(DefaultBaseDelay, 5))
	assert.Equal(t, 50*time.Millisecond, Delay(DefaultBaseDelay, 10))
}

func TestFramesAreQuarterStarts(t *testing.T) {
	frames := Frames(table(t))
	require.Len(t, frames, 8)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), frames[0])
	assert.Equal(t, time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), frames[7])
	for _, f := range frames {
		assert.Equal(t, 1, f.Day())
		assert.Contains(t, []time.Month{1, 4, 7, 10}, f.Month())
	}

	assert.Nil(t, Frames(&timeseries.Table{}))
}

func TestInitialCutoff(t *testing.T) {
	got, ok := InitialCutoff(table(t))
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1825), got)

	_, ok = InitialCutoff(&timeseries.Table{})
	assert.False(t, ok)
}

func drain(t *testing.T, s *Stepper) []Frame {
	t.Helper()
	var out []Frame
	for {
		f, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, f)
		require.Less(t, len(out), 10000)
	}
}

func TestStepperLifecycle(t *testing.T) {
	tbl := table(t)
	s, err := NewStepper(tbl, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, Idle, s.State())

	first, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, Running, s.State())
	assert.Equal(t, "2022-01-01", first.Date)
	assert.Equal(t, 0, first.Progress)

	rest := drain(t, s)
	frames := append([]Frame{first}, rest...)
	assert.Equal(t, Completed, s.State())
	assert.Len(t, frames, s.Len())
	assert.Len(t, frames, 9, "8 quarter frames plus the final one")

	final := frames[len(frames)-1]
	assert.True(t, final.Final)
	assert.Equal(t, 100, final.Progress)
	assert.Equal(t, "$34,000B", final.Metrics.NationalDebt)
	assert.Equal(t, "5.25%", final.Metrics.FedFundsRate)
	assert.Equal(t, "$28,000B", final.Metrics.GDP)
	assert.Equal(t, "3.10%", final.Metrics.Inflation)
	assert.Len(t, final.Chart.Data[0].X, econtest.Rows)

	_, ok = s.Next()
	assert.False(t, ok)
}

func TestStepperFrameContents(t *testing.T) {
	s, err := NewStepper(table(t), 10, 0)
	require.NoError(t, err)

	frames := drain(t, s)
	f := frames[2]
	assert.Equal(t, "2022-07-01", f.Date)
	assert.Len(t, f.Chart.Data[0].X, 7)
	assert.Equal(t, "2022-07-01", f.Metrics.Date)
	assert.Equal(t, 25, f.Progress)
}

func TestProgressMonotoneEndsAt100(t *testing.T) {
	for speed := MinSpeed; speed <= MaxSpeed; speed++ {
		s, err := NewStepper(longTable(), speed, 0)
		require.NoError(t, err)

		frames := drain(t, s)
		prev := -1
		for _, f := range frames {
			assert.GreaterOrEqual(t, f.Progress, prev, "speed %d", speed)
			assert.LessOrEqual(t, f.Progress, 100)
			prev = f.Progress
		}
		assert.Equal(t, 100, frames[len(frames)-1].Progress)
		assert.LessOrEqual(t, len(frames)-1, DefaultFramesPerSpeed*speed*2, "stride bounds the frame count")
	}
}

func TestStepperEmptyTable(t *testing.T) {
	empty := &timeseries.Table{Columns: econdata.Names(), Values: make([][]float64, 4)}
	s, err := NewStepper(empty, 5, 0)
	require.NoError(t, err)

	frames := drain(t, s)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Final)
	assert.Equal(t, "N/A", frames[0].Metrics.NationalDebt)
}

func TestStepperCancel(t *testing.T) {
	s, err := NewStepper(table(t), 10, 0)
	require.NoError(t, err)
	_, _ = s.Next()
	s.Cancel()
	assert.Equal(t, Cancelled, s.State())
	_, ok := s.Next()
	assert.False(t, ok)
}

func TestPlayerRunCompletes(t *testing.T) {
	m := infra.NewMetrics()
	p, err := NewPlayer(table(t), 10, Options{BaseDelay: time.Millisecond, Metrics: m})
	require.NoError(t, err)
	assert.Equal(t, 100*time.Microsecond, p.Delay())

	var got []Frame
	err = p.Run(context.Background(), func(f Frame) error {
		got = append(got, f)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, p.Frames())
	assert.Equal(t, Completed, p.State())
	assert.Equal(t, float64(len(got)), testutil.ToFloat64(m.FramesRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnimationsTotal.WithLabelValues("completed")))
	assert.Zero(t, testutil.ToFloat64(m.ActivePlayers))
}

func TestPlayerRunCancelled(t *testing.T) {
	p, err := NewPlayer(longTable(), 1, Options{BaseDelay: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	err = p.Run(ctx, func(f Frame) error {
		count++
		if count == 3 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, count)
	assert.Equal(t, Cancelled, p.State())
}

func TestPlayerEmitError(t *testing.T) {
	p, err := NewPlayer(table(t), 5, Options{BaseDelay: time.Millisecond})
	require.NoError(t, err)

	boom := errors.New("client gone")
	err = p.Run(context.Background(), func(Frame) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Cancelled, p.State())
}

func TestOptionsFromConfig(t *testing.T) {
	o := OptionsFromConfig(config.AnimationConfig{BaseDelayMS: 250, MaxFramesPerSpeed: 40})
	assert.Equal(t, 250*time.Millisecond, o.BaseDelay)
	assert.Equal(t, 40, o.FramesPerSpeed)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	b, err := Running.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "running", string(b))

	var st State
	require.NoError(t, st.UnmarshalText([]byte("completed")))
	assert.Equal(t, Completed, st)
	assert.Error(t, st.UnmarshalText([]byte("paused")))
}
