package export

import (
	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// Exporter produces the CSV download and records export metrics.
type Exporter struct {
	Policy  DuplicatePolicy
	Metrics *metrics.Metrics
}

// Export returns the CSV bytes for samples.
func (e *Exporter) Export(samples []core.Sample) ([]byte, error) {
	b, err := CSV(samples, e.Policy)
	e.Metrics.RecordExport(err)
	return b, err
}
