package stats

import "github.com/vfg2006/ads-sync-engine/pkg/utils"

// FunnelStage é um estágio do funil de conversão com a taxa acumulada em
// relação ao primeiro estágio
type FunnelStage struct {
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	ConversionRate float64 `json:"conversion_rate"`
}

// CalculateFunnel monta o funil de três estágios (Impressões, Cliques,
// Conversões). Cada estágio carrega a taxa de conversão acumulada relativa
// às impressões; o primeiro estágio é fixado em 100%.
func CalculateFunnel(impressions, clicks, conversions int) []FunnelStage {
	base := float64(impressions)

	return []FunnelStage{
		{
			Name:           "Impressões",
			Count:          impressions,
			ConversionRate: 100,
		},
		{
			Name:           "Cliques",
			Count:          clicks,
			ConversionRate: utils.RoundWithFourDecimalPlace(SafeDivide(float64(clicks), base, 0) * 100),
		},
		{
			Name:           "Conversões",
			Count:          conversions,
			ConversionRate: utils.RoundWithFourDecimalPlace(SafeDivide(float64(conversions), base, 0) * 100),
		},
	}
}
