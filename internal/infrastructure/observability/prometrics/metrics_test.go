package prometrics

import (
	"testing"

	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounterAddsWithLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New("pos", "", reg)

	c := r.Counter("orders_finalized_total", "Finalized orders.", "payment_method")
	c.Add(1, observability.L("payment_method", "cash"))
	c.Bind(observability.L("payment_method", "cash")).Add(2)
	c.Add(1, observability.L("payment_method", "pix"))

	vec := r.(*registry)
	v, ok := vec.counters.Load("orders_finalized_total")
	assert.True(t, ok)
	cv := v.(*prometheus.CounterVec)
	assert.InDelta(t, 3, testutil.ToFloat64(cv.WithLabelValues("cash")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(cv.WithLabelValues("pix")), 1e-9)
}

func TestRegisteringTwiceReturnsSameVector(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New("pos", "", reg)

	assert.NotPanics(t, func() {
		r.Counter("sessions_opened_total", "Sessions.", "register")
		r.Counter("sessions_opened_total", "Sessions.", "register")
		r.Histogram("order_value", "Order totals.", prometheus.DefBuckets)
		r.Histogram("order_value", "Order totals.", prometheus.DefBuckets)
	})

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 0, count, "vectors without observations export no series")
}

func TestHistogramObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New("pos", "", reg)

	h := r.Histogram("order_value", "Order totals.", []float64{10, 50, 100}, "register")
	h.Observe(12.5, observability.L("register", "1"))
	h.Bind(observability.L("register", "1")).Observe(70)

	count, err := testutil.GatherAndCount(reg, "pos_order_value")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
