package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAsk(t *testing.T) {
	before := testutil.ToFloat64(AsksTotal.WithLabelValues("transport"))
	beforeSuccess := testutil.ToFloat64(AsksTotal.WithLabelValues(OutcomeSuccess))

	ObserveAsk("transport", 2*time.Second)
	ObserveAsk("transport", 30*time.Second)

	assert.Equal(t, before+2, testutil.ToFloat64(AsksTotal.WithLabelValues("transport")))
	assert.Equal(t, beforeSuccess, testutil.ToFloat64(AsksTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1, testutil.CollectAndCount(AskDuration))
}
