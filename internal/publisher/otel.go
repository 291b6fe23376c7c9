package publisher

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/robotcontrol/vispub/internal/publisher"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	markers     metric.Int64Counter
	batches     metric.Int64Counter
	deleteAll   metric.Int64Counter
	jointStates metric.Int64Counter
	errors      metric.Int64Counter
}

// newMetrics uses the global OTel meter (no-op if not configured).
func newMetrics() (*metrics, error) {
	m := meter()
	out := &metrics{}

	var err error
	out.markers, err = m.Int64Counter(
		"visual.markers.published",
		metric.WithDescription("Total markers published"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markers counter: %w", err)
	}

	out.batches, err = m.Int64Counter(
		"visual.batches.published",
		metric.WithDescription("Total non-empty marker batches published"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batches counter: %w", err)
	}

	out.deleteAll, err = m.Int64Counter(
		"visual.delete_all.sent",
		metric.WithDescription("Total delete-all directives sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating delete-all counter: %w", err)
	}

	out.jointStates, err = m.Int64Counter(
		"joint_state.published",
		metric.WithDescription("Total joint state messages published"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating joint state counter: %w", err)
	}

	out.errors, err = m.Int64Counter(
		"publish.errors",
		metric.WithDescription("Total transport publish failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	return out, nil
}
