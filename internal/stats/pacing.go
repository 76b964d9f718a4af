package stats

import (
	"math"
	"time"

	"github.com/vfg2006/ads-sync-engine/pkg/utils"
)

// Limite em pontos percentuais dentro do qual o gasto é considerado no ritmo
const pacingOnTrackBand = 5.0

const (
	PacingStatusOnTrack = "on-track"
	PacingStatusAhead   = "ahead"
	PacingStatusBehind  = "behind"
)

// BudgetPacing compara o percentual do orçamento gasto com o percentual do
// período decorrido e projeta o gasto final no ritmo atual
type BudgetPacing struct {
	SpentPercent       float64 `json:"spent_percent"`
	TimeElapsedPercent float64 `json:"time_elapsed_percent"`
	PacingDelta        float64 `json:"pacing_delta"`
	PacingStatus       string  `json:"pacing_status"`
	DailyBurnRate      float64 `json:"daily_burn_rate"`
	ProjectedSpend     float64 `json:"projected_spend"`
}

// PacingLocation constrói a referência de calendário fixa usada na contagem
// de dias. Todo o cálculo de pacing usa um único fuso de deslocamento fixo
// para que "hoje" e as viradas de dia sejam consistentes entre execuções.
func PacingLocation(offsetMinutes int) *time.Location {
	return time.FixedZone("pacing", offsetMinutes*60)
}

// DaysElapsed conta os dias decorridos entre o início do período e o
// instante atual na referência de calendário dada, arredondando para cima e
// limitando o resultado ao intervalo [0, totalDays].
func DaysElapsed(periodStart, now time.Time, loc *time.Location, totalDays int) int {
	start := utils.TruncateToDay(periodStart.In(loc))
	elapsed := now.In(loc).Sub(start).Hours() / 24

	days := int(math.Ceil(elapsed))
	if days < 0 {
		return 0
	}
	if days > totalDays {
		return totalDays
	}

	return days
}

// CalculateBudgetPacing produz o veredito de ritmo de gasto do orçamento.
// Pré-condições: totalDays >= 1 e daysElapsed já limitado a totalDays.
func CalculateBudgetPacing(totalBudget, totalSpent float64, daysElapsed, totalDays int) *BudgetPacing {
	if totalDays < 1 {
		totalDays = 1
	}
	if daysElapsed > totalDays {
		daysElapsed = totalDays
	}
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	spentPercent := SafeDivide(totalSpent, totalBudget, 0) * 100
	timeElapsedPercent := float64(daysElapsed) / float64(totalDays) * 100
	pacingDelta := spentPercent - timeElapsedPercent

	status := PacingStatusBehind
	if math.Abs(pacingDelta) < pacingOnTrackBand {
		status = PacingStatusOnTrack
	} else if pacingDelta > 0 {
		status = PacingStatusAhead
	}

	dailyBurnRate := SafeDivide(totalSpent, float64(daysElapsed), 0)
	projectedSpend := dailyBurnRate * float64(totalDays)

	return &BudgetPacing{
		SpentPercent:       utils.RoundWithTwoDecimalPlace(spentPercent),
		TimeElapsedPercent: utils.RoundWithTwoDecimalPlace(timeElapsedPercent),
		PacingDelta:        utils.RoundWithTwoDecimalPlace(pacingDelta),
		PacingStatus:       status,
		DailyBurnRate:      utils.RoundWithTwoDecimalPlace(dailyBurnRate),
		ProjectedSpend:     utils.RoundWithTwoDecimalPlace(projectedSpend),
	}
}
