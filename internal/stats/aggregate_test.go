package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

func TestAggregateMetrics(t *testing.T) {
	tests := []struct {
		name     string
		rows     []*domain.DailyMetric
		validate func(t *testing.T, result *AggregatedMetrics)
	}{
		{
			name: "ROAS médio deve ser ponderado pelo gasto, não a média simples das razões",
			rows: []*domain.DailyMetric{
				{Spend: 100, ROAS: 2},
				{Spend: 50, ROAS: 5},
			},
			validate: func(t *testing.T, result *AggregatedMetrics) {
				// (100*2 + 50*5) / 150 = 3.0 e não (2+5)/2 = 3.5
				assert.Equal(t, 3.0, result.AvgROAS)
				assert.Equal(t, 450.0, result.TotalRevenue)
				assert.Equal(t, 150.0, result.TotalSpend)
			},
		},
		{
			name: "Entrada vazia deve produzir resultado zerado, não erro",
			rows: []*domain.DailyMetric{},
			validate: func(t *testing.T, result *AggregatedMetrics) {
				assert.Equal(t, 0.0, result.TotalSpend)
				assert.Equal(t, 0, result.TotalImpressions)
				assert.Equal(t, 0, result.TotalClicks)
				assert.Equal(t, 0, result.TotalConversions)
				assert.Equal(t, 0.0, result.AvgCTR)
				assert.Equal(t, 0.0, result.AvgCPC)
				assert.Equal(t, 0.0, result.AvgCPM)
				assert.Equal(t, 0.0, result.AvgCVR)
				assert.Equal(t, 0.0, result.AvgROAS)
			},
		},
		{
			name: "Médias devem ser derivadas dos totais",
			rows: []*domain.DailyMetric{
				{Spend: 50, Impressions: 10000, Clicks: 100, Conversions: 10},
				{Spend: 150, Impressions: 30000, Clicks: 500, Conversions: 40},
			},
			validate: func(t *testing.T, result *AggregatedMetrics) {
				// CTR = 100 * 600/40000 = 1.5
				assert.Equal(t, 1.5, result.AvgCTR)
				// CPC = 200/600
				assert.InDelta(t, 0.3333, result.AvgCPC, 0.0001)
				// CPM = 1000 * 200/40000 = 5
				assert.Equal(t, 5.0, result.AvgCPM)
				// CVR = 100 * 50/600
				assert.InDelta(t, 8.3333, result.AvgCVR, 0.0001)
			},
		},
		{
			name: "Denominadores zerados devem resolver para zero via divisão segura",
			rows: []*domain.DailyMetric{
				{Spend: 0, Impressions: 0, Clicks: 0, Conversions: 0, ROAS: 3},
			},
			validate: func(t *testing.T, result *AggregatedMetrics) {
				assert.Equal(t, 0.0, result.AvgCTR)
				assert.Equal(t, 0.0, result.AvgCPC)
				assert.Equal(t, 0.0, result.AvgROAS)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, AggregateMetrics(tt.rows))
		})
	}
}

func TestCalculateDelta(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{name: "Crescimento de 20%", current: 120, previous: 100, expected: 0.2},
		{name: "Período anterior zerado com valor atual positivo retorna 1", current: 50, previous: 0, expected: 1},
		{name: "Ambos os períodos zerados retornam 0", current: 0, previous: 0, expected: 0},
		{name: "Queda de 50%", current: 50, previous: 100, expected: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDelta(tt.current, tt.previous))
		})
	}
}

func TestCalculateFunnel(t *testing.T) {
	stages := CalculateFunnel(10000, 250, 25)

	assert.Len(t, stages, 3)

	assert.Equal(t, "Impressões", stages[0].Name)
	assert.Equal(t, 10000, stages[0].Count)
	assert.Equal(t, 100.0, stages[0].ConversionRate)

	assert.Equal(t, "Cliques", stages[1].Name)
	assert.Equal(t, 250, stages[1].Count)
	assert.Equal(t, 2.5, stages[1].ConversionRate)

	assert.Equal(t, "Conversões", stages[2].Name)
	assert.Equal(t, 25, stages[2].Count)
	assert.Equal(t, 0.25, stages[2].ConversionRate)
}

func TestCalculateFunnelWithoutImpressions(t *testing.T) {
	stages := CalculateFunnel(0, 0, 0)

	// O primeiro estágio é fixado em 100% por definição
	assert.Equal(t, 100.0, stages[0].ConversionRate)
	assert.Equal(t, 0.0, stages[1].ConversionRate)
	assert.Equal(t, 0.0, stages[2].ConversionRate)
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.0, SafeDivide(10, 5, 0))
	assert.Equal(t, 0.0, SafeDivide(10, 0, 0))
	assert.Equal(t, -1.0, SafeDivide(10, -5, -1))
}
