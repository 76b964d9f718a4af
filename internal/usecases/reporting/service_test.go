package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func floatPtr(v float64) *float64 {
	return &v
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func newTestReporter(ctrl *gomock.Controller, now time.Time) (*Service, *mocks.MockDailyMetricRepository, *mocks.MockCampaignRepository) {
	metricRepo := mocks.NewMockDailyMetricRepository(ctrl)
	campaignRepo := mocks.NewMockCampaignRepository(ctrl)

	cfg := &config.Config{
		Pacing: config.Pacing{UTCOffsetMinutes: 330},
	}

	service := &Service{
		cfg:          cfg,
		metricRepo:   metricRepo,
		campaignRepo: campaignRepo,
		now:          func() time.Time { return now },
	}

	return service, metricRepo, campaignRepo
}

func TestGetEntityMetrics_RequiresValidDateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _ := newTestReporter(ctrl, time.Now())

	_, err := service.GetEntityMetrics(context.Background(), domain.EntityTypeAdSet, "AS1", nil)
	assert.Error(t, err)

	filters := &domain.InsightFilters{
		StartDate: datePtr(2024, 5, 10),
		EndDate:   datePtr(2024, 5, 1),
	}
	_, err = service.GetEntityMetrics(context.Background(), domain.EntityTypeAdSet, "AS1", filters)
	assert.Error(t, err)
}

func TestGetEntityMetrics_AggregatesAndComparesWithPreviousPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, _ := newTestReporter(ctrl, time.Now())

	filters := &domain.InsightFilters{
		StartDate: datePtr(2024, 5, 8),
		EndDate:   datePtr(2024, 5, 14),
	}

	currentRows := []*domain.DailyMetric{
		{EntityID: "AS1", EntityType: domain.EntityTypeAdSet, Spend: 120, Impressions: 1000, Clicks: 50, Conversions: 5, Revenue: 300},
	}
	previousRows := []*domain.DailyMetric{
		{EntityID: "AS1", EntityType: domain.EntityTypeAdSet, Spend: 100, Impressions: 800, Clicks: 40, Conversions: 0, Revenue: 0},
	}

	metricRepo.EXPECT().
		GetByEntityAndDateRange(gomock.Any(), "AS1", domain.EntityTypeAdSet,
			*filters.StartDate, *filters.EndDate).
		Return(currentRows, nil)

	// Período anterior de mesma duração: 1 a 7 de maio
	metricRepo.EXPECT().
		GetByEntityAndDateRange(gomock.Any(), "AS1", domain.EntityTypeAdSet,
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)).
		Return(previousRows, nil)

	report, err := service.GetEntityMetrics(context.Background(), domain.EntityTypeAdSet, "AS1", filters)

	assert.NoError(t, err)
	assert.Equal(t, 120.0, report.Totals.TotalSpend)
	assert.InDelta(t, 0.2, report.Deltas["spend"], 0.0001)
	assert.InDelta(t, 0.25, report.Deltas["clicks"], 0.0001)
	// Período anterior sem conversões e atual com: convenção de delta 1.0
	assert.Equal(t, 1.0, report.Deltas["conversions"])
	assert.Len(t, report.Funnel, 3)
	assert.Equal(t, 100.0, report.Funnel[0].ConversionRate)
	assert.Nil(t, report.Pacing)
}

func TestGetEntityMetrics_CampaignWithLifetimeBudgetGetsPacing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// 11 dias decorridos de um período de 20 dias começando em 1 de maio
	now := time.Date(2024, 5, 11, 12, 0, 0, 0, time.UTC)
	service, metricRepo, campaignRepo := newTestReporter(ctrl, now)

	filters := &domain.InsightFilters{
		StartDate: datePtr(2024, 5, 1),
		EndDate:   datePtr(2024, 5, 20),
	}

	rows := []*domain.DailyMetric{
		{EntityID: "C1", EntityType: domain.EntityTypeCampaign, Spend: 6500},
	}

	metricRepo.EXPECT().
		GetByEntityAndDateRange(gomock.Any(), "C1", domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return(rows, nil)
	metricRepo.EXPECT().
		GetByEntityAndDateRange(gomock.Any(), "C1", domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return([]*domain.DailyMetric{}, nil)
	campaignRepo.EXPECT().
		GetByCampaignID(gomock.Any(), "C1").
		Return(&domain.Campaign{CampaignID: "C1", LifetimeBudget: floatPtr(10000)}, nil)

	report, err := service.GetEntityMetrics(context.Background(), domain.EntityTypeCampaign, "C1", filters)

	assert.NoError(t, err)
	assert.NotNil(t, report.Pacing)
	assert.Equal(t, 65.0, report.Pacing.SpentPercent)
	assert.Equal(t, "ahead", report.Pacing.PacingStatus)
}

func TestGetEntityMetrics_CampaignWithoutBudgetOmitsPacing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, campaignRepo := newTestReporter(ctrl, time.Now())

	filters := &domain.InsightFilters{
		StartDate: datePtr(2024, 5, 1),
		EndDate:   datePtr(2024, 5, 7),
	}

	metricRepo.EXPECT().
		GetByEntityAndDateRange(gomock.Any(), "C1", domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return([]*domain.DailyMetric{}, nil).
		Times(2)
	campaignRepo.EXPECT().
		GetByCampaignID(gomock.Any(), "C1").
		Return(&domain.Campaign{CampaignID: "C1"}, nil)

	report, err := service.GetEntityMetrics(context.Background(), domain.EntityTypeCampaign, "C1", filters)

	assert.NoError(t, err)
	assert.Nil(t, report.Pacing)
}
