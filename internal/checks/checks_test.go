package checks

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"csb/statusboard/internal/config"
	"csb/statusboard/internal/metrics"
	"csb/statusboard/internal/models"
)

// closedPort returns a local port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestRunner_KeepsCheckerOrder(t *testing.T) {
	slow := NewFuncChecker("slow", func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		return nil
	})
	fast := NewFuncChecker("fast", func(ctx context.Context) error {
		return errors.New("boom")
	})

	r := NewRunner(zaptest.NewLogger(t).Sugar(), nil, slow, fast)
	services := r.Run(context.Background())

	require.Len(t, services, 2)
	assert.Equal(t, models.ServiceEntry{Name: "slow", Status: models.StatusOK, Details: DetailsOK}, services[0])
	assert.Equal(t, models.ServiceEntry{Name: "fast", Status: models.StatusError, Details: "boom"}, services[1])
}

func TestRunner_RecordsMetrics(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	r := NewRunner(zaptest.NewLogger(t).Sugar(), reg,
		NewFuncChecker("up", func(ctx context.Context) error { return nil }),
		NewFuncChecker("down", func(ctx context.Context) error { return errors.New("x") }),
	)

	r.Run(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ServiceUp.WithLabelValues("up")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.ServiceUp.WithLabelValues("down")))
	assert.Equal(t, 2, testutil.CollectAndCount(reg.ProbeDuration))
}

func TestRunner_Empty(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t).Sugar(), nil)
	assert.Empty(t, r.Run(context.Background()))
}

func TestPostgresChecker_Unreachable(t *testing.T) {
	c := NewPostgresChecker(config.PostgresConfig{
		Host: "127.0.0.1",
		Port: closedPort(t),
		User: "board",
		DB:   "health",
	}, time.Second)

	res := c.Check(context.Background())

	assert.Equal(t, PostgresName, c.Name())
	assert.Equal(t, models.StatusError, res.Status)
	assert.NotEmpty(t, res.Details)
}

func TestRedisChecker_Unreachable(t *testing.T) {
	c := NewRedisChecker(config.RedisConfig{Host: "127.0.0.1", Port: closedPort(t)}, time.Second)

	res := c.Check(context.Background())

	assert.Equal(t, RedisName, c.Name())
	assert.Equal(t, models.StatusError, res.Status)
	assert.Contains(t, res.Details, "127.0.0.1")
}
