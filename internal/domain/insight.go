package domain

import "time"

// InsightFilters delimita o período de consulta de métricas
type InsightFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// NewInsightFilters cria filtros para os últimos N dias, terminando ontem
func NewInsightFilters(lookbackDays int) *InsightFilters {
	end := time.Now().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(lookbackDays - 1))

	return &InsightFilters{
		StartDate: &start,
		EndDate:   &end,
	}
}
