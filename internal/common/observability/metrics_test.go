// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservability_RecordsJobInstruments(t *testing.T) {
	obs := New("observability-test")
	defer obs.Shutdown()

	assert.NotNil(t, obs.jobCounter)
	assert.NotNil(t, obs.jobDuration)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "calculate-match-score")
		obs.RecordJobDuration(ctx, 120*time.Millisecond, "calculate-match-score")
	})
}

func TestObservability_ZeroValueIsNoOp(t *testing.T) {
	// New falls back to an empty struct when the exporter cannot be built;
	// recording through it must be safe.
	var obs Observability

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "batch-score")
		obs.RecordJobDuration(ctx, time.Second, "batch-score")
		obs.Shutdown()
	})
}
