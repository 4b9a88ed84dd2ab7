package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
	"github.com/wesleyorama2/pdfbench/internal/testutil/pdffixture"
)

// slowGenerator sleeps before returning its canned result.
type slowGenerator struct {
	delay time.Duration
	err   error
}

func (s *slowGenerator) Type() generator.Type { return generator.TypeFitz }

func (s *slowGenerator) Render(ctx context.Context, req *generator.RenderRequest) ([]generator.PageImage, error) {
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, s.err
	}
	return []generator.PageImage{}, nil
}

func (s *slowGenerator) Close() error { return nil }

func TestMeasure_Success(t *testing.T) {
	gen := &slowGenerator{delay: 5 * time.Millisecond}

	result, elapsed, err := Measure(context.Background(), gen, &generator.RenderRequest{Path: "doc.pdf"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
	assert.Equal(t, elapsed, result.Elapsed)
	assert.Equal(t, generator.TypeFitz, result.Generator)
	assert.Equal(t, "doc.pdf", result.Source)
	assert.Equal(t, 0, result.PageCount())
}

func TestMeasure_Failure(t *testing.T) {
	cause := generator.NewRenderError(generator.TypeFitz, generator.ErrCorrupt, nil)
	gen := &slowGenerator{delay: time.Millisecond, err: cause}

	result, elapsed, err := Measure(context.Background(), gen, &generator.RenderRequest{Data: pdffixture.Corrupt()})
	assert.Nil(t, result)
	assert.GreaterOrEqual(t, elapsed, time.Millisecond)

	var measured *MeasuredError
	require.ErrorAs(t, err, &measured)
	assert.Equal(t, elapsed, measured.Elapsed)
	assert.Equal(t, StageRender, measured.Stage)
	assert.ErrorIs(t, err, generator.ErrCorrupt)
	assert.Same(t, cause, measured.Err)
}

func TestEvaluateThresholds(t *testing.T) {
	snapshot := &metrics.Snapshot{
		FailedRuns:     1,
		PagesPerSecond: 12.5,
		Render: metrics.DurationStats{
			Min:  10 * time.Millisecond,
			Max:  900 * time.Millisecond,
			Mean: 200 * time.Millisecond,
			P50:  150 * time.Millisecond,
			P90:  400 * time.Millisecond,
			P95:  600 * time.Millisecond,
			P99:  850 * time.Millisecond,
		},
	}

	tests := []struct {
		expr   string
		passed bool
	}{
		{"p95 < 1s", true},
		{"p95 < 500ms", false},
		{"avg <= 200ms", true},
		{"med == 150ms", true},
		{"max >= 1s", false},
		{"min != 0s", true},
		{"pages_per_second > 10", true},
		{"failures == 0", false},
		{"rps > 1", false},
		{"nonsense", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			results := EvaluateThresholds([]string{tt.expr}, snapshot)
			require.Len(t, results, 1)
			assert.Equal(t, tt.passed, results[0].Passed)
			if !tt.passed {
				assert.NotEmpty(t, results[0].Message)
			}
		})
	}

	assert.Nil(t, EvaluateThresholds(nil, snapshot))
}
