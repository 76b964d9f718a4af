package stats

import (
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"github.com/vfg2006/ads-sync-engine/pkg/utils"
)

// AggregatedMetrics é o resultado da agregação de um conjunto de linhas de
// métricas diárias. As médias são derivadas dos totais, nunca da média
// simples das razões por linha.
type AggregatedMetrics struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalImpressions int     `json:"total_impressions"`
	TotalClicks      int     `json:"total_clicks"`
	TotalConversions int     `json:"total_conversions"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgCTR           float64 `json:"avg_ctr"`
	AvgCPC           float64 `json:"avg_cpc"`
	AvgCPM           float64 `json:"avg_cpm"`
	AvgCVR           float64 `json:"avg_cvr"`
	AvgROAS          float64 `json:"avg_roas"`
}

// SafeDivide divide num por den, retornando def quando o denominador é <= 0.
// Divisões por zero nas agregações nunca são erros.
func SafeDivide(num, den, def float64) float64 {
	if den <= 0 {
		return def
	}

	return num / den
}

// AggregateMetrics agrega linhas de métricas diárias em totais e médias
// ponderadas. O ROAS médio é ponderado pelo gasto de cada linha: a média
// simples de razões por linha produz resultados incorretos. Entrada vazia
// produz um resultado zerado, não um erro.
func AggregateMetrics(rows []*domain.DailyMetric) *AggregatedMetrics {
	result := &AggregatedMetrics{}

	var roasWeightedSum float64

	for _, row := range rows {
		if row == nil {
			continue
		}

		result.TotalSpend += row.Spend
		result.TotalImpressions += row.Impressions
		result.TotalClicks += row.Clicks
		result.TotalConversions += row.Conversions
		roasWeightedSum += row.ROAS * row.Spend
	}

	totalImpressions := float64(result.TotalImpressions)
	totalClicks := float64(result.TotalClicks)
	totalConversions := float64(result.TotalConversions)

	result.AvgCTR = utils.RoundWithFourDecimalPlace(SafeDivide(totalClicks, totalImpressions, 0) * 100)
	result.AvgCPC = utils.RoundWithFourDecimalPlace(SafeDivide(result.TotalSpend, totalClicks, 0))
	result.AvgCPM = utils.RoundWithFourDecimalPlace(SafeDivide(result.TotalSpend, totalImpressions, 0) * 1000)
	result.AvgCVR = utils.RoundWithFourDecimalPlace(SafeDivide(totalConversions, totalClicks, 0) * 100)
	result.AvgROAS = utils.RoundWithFourDecimalPlace(SafeDivide(roasWeightedSum, result.TotalSpend, 0))
	result.TotalRevenue = utils.RoundWithFourDecimalPlace(roasWeightedSum)

	return result
}

// CalculateDelta calcula a variação relativa entre dois períodos. Quando o
// período anterior é zero, a convenção é retornar 1 (aumento de 100%) se o
// período atual for positivo e 0 caso contrário.
func CalculateDelta(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 1
		}
		return 0
	}

	return (current - previous) / previous
}
