package observable_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper"
)

type testQuery struct{}

func (testQuery) QueryType() string {
	return "TestQuery"
}

type queryHandlerFunc func(ctx context.Context, q testQuery) ([]string, error)

func (f queryHandlerFunc) Handle(ctx context.Context, q testQuery) ([]string, error) {
	return f(ctx, q)
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metricsSpy := helper.NewMetricsCollectorSpy()
	logSpy := helper.NewLogHandlerSpy()
	core := queryHandlerFunc(func(context.Context, testQuery) ([]string, error) {
		return []string{"a", "b"}, nil
	})

	wrapper, err := observable.NewQueryWrapper[testQuery, []string](
		core,
		observable.WithQueryMetrics[testQuery, []string](metricsSpy),
		observable.WithQueryLogging[testQuery, []string](slog.New(logSpy)),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), testQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
	assert.True(t, metricsSpy.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, logSpy.HasLog(slog.LevelInfo, shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_Canceled(t *testing.T) {
	// arrange
	metricsSpy := helper.NewMetricsCollectorSpy()
	tracingSpy := helper.NewTracingCollectorSpy()
	core := queryHandlerFunc(func(ctx context.Context, _ testQuery) ([]string, error) {
		return nil, ctx.Err()
	})

	wrapper, err := observable.NewQueryWrapper[testQuery, []string](
		core,
		observable.WithQueryMetrics[testQuery, []string](metricsSpy),
		observable.WithQueryTracing[testQuery, []string](tracingSpy),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, err = wrapper.Handle(ctx, testQuery{})

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, metricsSpy.HasCounterRecordForMetric(shell.QueryHandlerCanceledMetric).Assert())
	assert.True(t, tracingSpy.HasFinishedSpan(shell.SpanNameQueryHandle, shell.StatusCanceled))
}
