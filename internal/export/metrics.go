package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var exportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "exports_total",
		Help: "PDF exports by template and outcome",
	},
	[]string{"template", "outcome"},
)
