package bootstrap

import (
	"lagoon-booking/internal/pkg/metrics"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
	),
)

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics("lagoon_booking")
}
