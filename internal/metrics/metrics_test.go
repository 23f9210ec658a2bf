package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WritesTotal.Inc()
	m.WritesTotal.Inc()
	m.ClockCollisions.Inc()
	m.TombstonesReaped.Add(5)

	req.Equal(float64(2), testutil.ToFloat64(m.WritesTotal))
	req.Equal(float64(1), testutil.ToFloat64(m.ClockCollisions))
	req.Equal(float64(5), testutil.ToFloat64(m.TombstonesReaped))
	req.Zero(testutil.ToFloat64(m.DeletesTotal))

	// all collectors land on the given registry
	families, err := reg.Gather()
	req.NoError(err)
	req.NotEmpty(families)
}

func TestNew_independentRegistries(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	// two instances over separate registries must not collide
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.WritesTotal.Inc()
	req.Equal(float64(1), testutil.ToFloat64(a.WritesTotal))
	req.Zero(testutil.ToFloat64(b.WritesTotal))
}

func TestNewServer(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	s, err := NewServer(&ServerConfig{})
	req.Error(err)
	req.Nil(s)

	s, err = NewServer(&ServerConfig{Port: 19464})
	req.NoError(err)
	req.NotNil(s)
	req.Equal("Metrics Server", s.Name())
	req.NoError(s.Stop())
}
