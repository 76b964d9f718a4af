package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"github.com/vfg2006/ads-sync-engine/internal/stats"
)

// EntityMetrics é a visão agregada das métricas de uma entidade em um
// período, com comparação contra o período imediatamente anterior de mesma
// duração. O pacing só é calculado quando a entidade é uma campanha com
// orçamento conhecido.
type EntityMetrics struct {
	EntityID   string                   `json:"entity_id"`
	EntityType domain.EntityType        `json:"entity_type"`
	StartDate  string                   `json:"start_date"`
	EndDate    string                   `json:"end_date"`
	Totals     *stats.AggregatedMetrics `json:"totals"`
	Deltas     map[string]float64       `json:"deltas"`
	Funnel     []stats.FunnelStage      `json:"funnel"`
	Pacing     *stats.BudgetPacing      `json:"pacing,omitempty"`
}

// Reporter define a interface de leitura de métricas agregadas
type Reporter interface {
	GetEntityMetrics(ctx context.Context, entityType domain.EntityType, entityID string, filters *domain.InsightFilters) (*EntityMetrics, error)
}

// Service implementa a leitura de métricas agregadas sobre o histórico
// persistido. Caminho somente leitura, sem estado compartilhado.
type Service struct {
	cfg          *config.Config
	metricRepo   repository.DailyMetricRepository
	campaignRepo repository.CampaignRepository
	now          func() time.Time
}

// NewService cria uma nova instância do serviço de relatórios
func NewService(
	cfg *config.Config,
	metricRepo repository.DailyMetricRepository,
	campaignRepo repository.CampaignRepository,
) Reporter {
	return &Service{
		cfg:          cfg,
		metricRepo:   metricRepo,
		campaignRepo: campaignRepo,
		now:          time.Now,
	}
}

// GetEntityMetrics agrega as métricas do período solicitado e calcula a
// variação contra o período anterior de mesma duração
func (s *Service) GetEntityMetrics(ctx context.Context, entityType domain.EntityType, entityID string, filters *domain.InsightFilters) (*EntityMetrics, error) {
	if filters == nil || filters.StartDate == nil || filters.EndDate == nil {
		return nil, fmt.Errorf("é necessário informar as datas de início e fim")
	}

	if filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("a data de início não pode ser posterior à data de fim")
	}

	rows, err := s.metricRepo.GetByEntityAndDateRange(ctx, entityID, entityType, *filters.StartDate, *filters.EndDate)
	if err != nil {
		return nil, err
	}

	totals := stats.AggregateMetrics(rows)

	// Período anterior de mesma duração, terminando um dia antes do início
	periodDays := int(filters.EndDate.Sub(*filters.StartDate).Hours()/24) + 1
	previousEnd := filters.StartDate.AddDate(0, 0, -1)
	previousStart := previousEnd.AddDate(0, 0, -(periodDays - 1))

	previousRows, err := s.metricRepo.GetByEntityAndDateRange(ctx, entityID, entityType, previousStart, previousEnd)
	if err != nil {
		return nil, err
	}

	previousTotals := stats.AggregateMetrics(previousRows)

	report := &EntityMetrics{
		EntityID:   entityID,
		EntityType: entityType,
		StartDate:  filters.StartDate.Format(time.DateOnly),
		EndDate:    filters.EndDate.Format(time.DateOnly),
		Totals:     totals,
		Deltas: map[string]float64{
			"spend":       stats.CalculateDelta(totals.TotalSpend, previousTotals.TotalSpend),
			"impressions": stats.CalculateDelta(float64(totals.TotalImpressions), float64(previousTotals.TotalImpressions)),
			"clicks":      stats.CalculateDelta(float64(totals.TotalClicks), float64(previousTotals.TotalClicks)),
			"conversions": stats.CalculateDelta(float64(totals.TotalConversions), float64(previousTotals.TotalConversions)),
			"revenue":     stats.CalculateDelta(totals.TotalRevenue, previousTotals.TotalRevenue),
		},
		Funnel: stats.CalculateFunnel(totals.TotalImpressions, totals.TotalClicks, totals.TotalConversions),
	}

	if entityType == domain.EntityTypeCampaign {
		report.Pacing = s.campaignPacing(ctx, entityID, filters, totals.TotalSpend, periodDays)
	}

	return report, nil
}

// campaignPacing calcula o pacing de orçamento da campanha quando há
// orçamento conhecido. Erros de consulta degradam para pacing ausente, sem
// falhar o relatório.
func (s *Service) campaignPacing(ctx context.Context, campaignID string, filters *domain.InsightFilters, totalSpent float64, totalDays int) *stats.BudgetPacing {
	campaign, err := s.campaignRepo.GetByCampaignID(ctx, campaignID)
	if err != nil {
		logrus.WithError(err).WithField("campaign_id", campaignID).Warn("Erro ao buscar campanha para pacing, omitindo")
		return nil
	}

	if campaign == nil {
		return nil
	}

	var totalBudget float64
	switch {
	case campaign.LifetimeBudget != nil && *campaign.LifetimeBudget > 0:
		totalBudget = *campaign.LifetimeBudget
	case campaign.DailyBudget != nil && *campaign.DailyBudget > 0:
		totalBudget = *campaign.DailyBudget * float64(totalDays)
	default:
		// Sem orçamento conhecido não há pacing
		return nil
	}

	loc := stats.PacingLocation(s.cfg.Pacing.UTCOffsetMinutes)
	daysElapsed := stats.DaysElapsed(*filters.StartDate, s.now(), loc, totalDays)

	return stats.CalculateBudgetPacing(totalBudget, totalSpent, daysElapsed, totalDays)
}
