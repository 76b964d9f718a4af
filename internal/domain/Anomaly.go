package domain

import "time"

// AnomalySeverity classifica a magnitude do desvio de uma anomalia
type AnomalySeverity string

const (
	AnomalySeverityHigh   AnomalySeverity = "high"
	AnomalySeverityMedium AnomalySeverity = "medium"
	AnomalySeverityLow    AnomalySeverity = "low"
)

// severityRank ordena as severidades da mais grave para a menos grave
var severityRank = map[AnomalySeverity]int{
	AnomalySeverityHigh:   3,
	AnomalySeverityMedium: 2,
	AnomalySeverityLow:    1,
}

// Rank retorna o peso numérico da severidade para ordenação
func (s AnomalySeverity) Rank() int {
	return severityRank[s]
}

// Anomaly representa um desvio relevante de uma métrica em relação à sua
// baseline histórica. Imutável depois de criada, exceto pelo campo Resolved,
// que é alterado por ação de um operador.
type Anomaly struct {
	ID               string          `json:"id"`
	EntityID         string          `json:"entity_id"`
	EntityType       EntityType      `json:"entity_type"`
	MetricName       string          `json:"metric_name"`
	ExpectedValue    float64         `json:"expected_value"`
	ActualValue      float64         `json:"actual_value"`
	DeviationPercent float64         `json:"deviation_percent"`
	Severity         AnomalySeverity `json:"severity"`
	AIExplanation    string          `json:"ai_explanation,omitempty"`
	Resolved         bool            `json:"resolved"`
	CreatedAt        time.Time       `json:"created_at"`
}
