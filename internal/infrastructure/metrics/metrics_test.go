package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	require.NotNil(t, m.EntriesPaid)
	require.NotNil(t, m.PartialPayments)
	require.NotNil(t, m.PaymentsReversed)
	require.NotNil(t, m.PeriodsPaid)
	require.NotNil(t, m.BackupsExported)
	require.NotNil(t, m.DBErrors)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, metricFamilies)

	for _, mf := range metricFamilies {
		require.Contains(t, mf.GetName(), "contas_")
	}
}
