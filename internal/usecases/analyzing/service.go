package analyzing

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/infrastructure/integrator/gemini"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"github.com/vfg2006/ads-sync-engine/pkg/utils"
)

// minGroupSize é o mínimo de pontos por (tipo, entidade) para que a média
// histórica tenha algum significado
const minGroupSize = 3

// watchedMetric extrai de uma linha diária o valor de uma métrica observada
// pelo detector
type watchedMetric struct {
	name  string
	value func(*domain.DailyMetric) float64
}

var watchedMetrics = []watchedMetric{
	{name: "spend", value: func(m *domain.DailyMetric) float64 { return m.Spend }},
	{name: "ctr", value: func(m *domain.DailyMetric) float64 { return m.CTR }},
	{name: "cpc", value: func(m *domain.DailyMetric) float64 { return m.CPC }},
	{name: "roas", value: func(m *domain.DailyMetric) float64 { return m.ROAS }},
}

// Service implementa o detector de anomalias sobre o histórico persistido
// de métricas diárias
type Service struct {
	cfg         *config.Config
	metricRepo  repository.DailyMetricRepository
	anomalyRepo repository.AnomalyRepository
	explainer   gemini.AnomalyExplainer
}

// NewService cria uma nova instância do serviço de análise de anomalias
func NewService(
	cfg *config.Config,
	metricRepo repository.DailyMetricRepository,
	anomalyRepo repository.AnomalyRepository,
	explainer gemini.AnomalyExplainer,
) Analyzer {
	return &Service{
		cfg:         cfg,
		metricRepo:  metricRepo,
		anomalyRepo: anomalyRepo,
		explainer:   explainer,
	}
}

// DetectAnomalies compara a linha mais recente de cada entidade com a média
// simples das linhas anteriores da janela. Apenas as anomalias mais graves
// (até o limite configurado) são enviadas para explicação e persistidas.
func (s *Service) DetectAnomalies(ctx context.Context, windowDays int, thresholdPercent float64) ([]*domain.Anomaly, error) {
	rows, err := s.metricRepo.GetRecent(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	groups := groupByEntity(rows)

	anomalies := make([]*domain.Anomaly, 0)
	for _, group := range groups {
		anomalies = append(anomalies, detectForGroup(group, thresholdPercent)...)
	}

	// Mais grave primeiro: severidade e, dentro dela, magnitude do desvio
	sort.SliceStable(anomalies, func(i, j int) bool {
		if anomalies[i].Severity != anomalies[j].Severity {
			return anomalies[i].Severity.Rank() > anomalies[j].Severity.Rank()
		}
		return math.Abs(anomalies[i].DeviationPercent) > math.Abs(anomalies[j].DeviationPercent)
	})

	logrus.WithFields(logrus.Fields{
		"window_days":       windowDays,
		"threshold_percent": thresholdPercent,
		"groups":            len(groups),
		"anomalies":         len(anomalies),
	}).Info("Detecção de anomalias concluída")

	s.explainAndPersist(ctx, anomalies)

	return anomalies, nil
}

// ListAnomalies retorna as anomalias persistidas mais recentes
func (s *Service) ListAnomalies(ctx context.Context, limit int) ([]*domain.Anomaly, error) {
	return s.anomalyRepo.ListRecent(ctx, limit)
}

// ResolveAnomaly marca uma anomalia como resolvida
func (s *Service) ResolveAnomaly(ctx context.Context, id string) error {
	return s.anomalyRepo.MarkResolved(ctx, id)
}

// explainAndPersist envia as anomalias mais graves para a capacidade externa
// de explicação e as persiste. Falhas de explicação degradam para uma
// explicação vazia e nunca bloqueiam a persistência.
func (s *Service) explainAndPersist(ctx context.Context, anomalies []*domain.Anomaly) {
	limit := s.cfg.AnomalyDetection.MaxExplained
	if limit > len(anomalies) {
		limit = len(anomalies)
	}

	for _, anomaly := range anomalies[:limit] {
		if s.explainer != nil && s.cfg.Gemini.Enabled {
			explanation, err := s.explainer.ExplainAnomaly(ctx, anomaly)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"entity_id":   anomaly.EntityID,
					"metric_name": anomaly.MetricName,
				}).Warn("Falha ao explicar anomalia, persistindo sem explicação")
			}
			anomaly.AIExplanation = explanation
		}

		if err := s.anomalyRepo.Save(ctx, anomaly); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"entity_id":   anomaly.EntityID,
				"metric_name": anomaly.MetricName,
			}).Error("Erro ao persistir anomalia")
		}
	}
}

// entityKey identifica um grupo de linhas de uma mesma entidade
type entityKey struct {
	entityType domain.EntityType
	entityID   string
}

// groupByEntity particiona as linhas por (tipo, entidade) preservando a
// ordem cronológica de cada grupo
func groupByEntity(rows []*domain.DailyMetric) map[entityKey][]*domain.DailyMetric {
	groups := make(map[entityKey][]*domain.DailyMetric)
	for _, row := range rows {
		key := entityKey{entityType: row.EntityType, entityID: row.EntityID}
		groups[key] = append(groups[key], row)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
	}

	return groups
}

// detectForGroup avalia um grupo cronológico de linhas: a última é a
// observação mais recente, as anteriores formam a baseline histórica
func detectForGroup(group []*domain.DailyMetric, thresholdPercent float64) []*domain.Anomaly {
	if len(group) < minGroupSize {
		return nil
	}

	latest := group[len(group)-1]
	historical := group[:len(group)-1]

	anomalies := make([]*domain.Anomaly, 0)
	for _, metric := range watchedMetrics {
		expected := historicalMean(historical, metric.value)
		if expected == 0 {
			// Sem baseline não há desvio mensurável
			continue
		}

		actual := metric.value(latest)
		deviation := 100 * (actual - expected) / expected
		if math.Abs(deviation) < thresholdPercent {
			continue
		}

		id, err := utils.GenerateID()
		if err != nil {
			logrus.WithError(err).Warn("Erro ao gerar identificador de anomalia")
			continue
		}

		anomalies = append(anomalies, &domain.Anomaly{
			ID:               id,
			EntityID:         latest.EntityID,
			EntityType:       latest.EntityType,
			MetricName:       metric.name,
			ExpectedValue:    utils.RoundWithFourDecimalPlace(expected),
			ActualValue:      utils.RoundWithFourDecimalPlace(actual),
			DeviationPercent: utils.RoundWithTwoDecimalPlace(deviation),
			Severity:         severityFor(math.Abs(deviation)),
			CreatedAt:        time.Now(),
		})
	}

	return anomalies
}

// historicalMean calcula a média simples (não ponderada) de uma métrica
// sobre a baseline histórica
func historicalMean(rows []*domain.DailyMetric, value func(*domain.DailyMetric) float64) float64 {
	if len(rows) == 0 {
		return 0
	}

	var sum float64
	for _, row := range rows {
		sum += value(row)
	}

	return sum / float64(len(rows))
}

// severityFor classifica a magnitude absoluta do desvio
func severityFor(absDeviation float64) domain.AnomalySeverity {
	switch {
	case absDeviation >= 50:
		return domain.AnomalySeverityHigh
	case absDeviation >= 30:
		return domain.AnomalySeverityMedium
	default:
		return domain.AnomalySeverityLow
	}
}
