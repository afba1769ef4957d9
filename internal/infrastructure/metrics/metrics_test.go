package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewCounterWith(t *testing.T) {
	c := NewCounterWith(prometheus.NewRegistry())

	c.WithLabelValues(LoginSuccess).Inc()
	c.WithLabelValues(LoginSuccess).Inc()
	c.WithLabelValues(LoginFailure).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.WithLabelValues(LoginFailure)))
}
