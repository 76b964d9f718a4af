package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metadomain "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestIntegrator(ctrl *gomock.Controller, revenueCfg config.Revenue) (*MetaIntegrator, *mocks.MockClient) {
	client := mocks.NewMockClient(ctrl)

	cfg := &config.Config{
		Meta:    config.Meta{AdAccountID: "act_123"},
		Revenue: revenueCfg,
	}

	return New(cfg, client), client
}

func TestListCampaigns_ConvertsBudgetsFromCents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newTestIntegrator(ctrl, config.Revenue{})

	client.EXPECT().ListCampaigns("act_123").Return([]metadomain.Campaign{
		{
			ID:          "C1",
			Name:        "Campanha A",
			Status:      "ACTIVE",
			DailyBudget: "150000", // centavos
		},
		{
			ID:     "C2",
			Name:   "Campanha B",
			Status: "PAUSED",
			// Sem orçamento reportado
		},
	}, nil)

	campaigns, err := integrator.ListCampaigns()

	assert.NoError(t, err)
	assert.Len(t, campaigns, 2)
	assert.Equal(t, domain.CampaignStatusActive, campaigns[0].Status)
	assert.NotNil(t, campaigns[0].DailyBudget)
	assert.Equal(t, 1500.0, *campaigns[0].DailyBudget)
	assert.Nil(t, campaigns[0].LifetimeBudget)
	assert.Nil(t, campaigns[1].DailyBudget)
}

func TestGetDailyMetrics_CoercesStringsAndDerivesRatios(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newTestIntegrator(ctrl, config.Revenue{})

	client.EXPECT().
		GetDailyInsights("C1", "campaign", gomock.Any()).
		Return([]metadomain.DailyInsight{
			{
				DateStart:   "2024-05-10",
				Spend:       "100.50",
				Impressions: "2000",
				Clicks:      "40",
				Actions: []metadomain.Action{
					{ActionType: "link_click", Value: "40"},
					{ActionType: "purchase", Value: "4"},
				},
				ActionValues: []metadomain.Action{
					{ActionType: "purchase", Value: "402.00"},
				},
			},
		}, nil)

	metrics, err := integrator.GetDailyMetrics("C1", domain.EntityTypeCampaign, domain.NewInsightFilters(7))

	assert.NoError(t, err)
	assert.Len(t, metrics, 1)

	metric := metrics[0]
	assert.Equal(t, 100.50, metric.Spend)
	assert.Equal(t, 2000, metric.Impressions)
	assert.Equal(t, 40, metric.Clicks)
	assert.Equal(t, 4, metric.Conversions)
	assert.Equal(t, 402.0, metric.Revenue)
	assert.Equal(t, 2.0, metric.CTR)    // 100 * 40/2000
	assert.Equal(t, 2.5125, metric.CPC) // 100.50/40
	assert.Equal(t, 50.25, metric.CPM)  // 1000 * 100.50/2000
	assert.Equal(t, 4.0, metric.ROAS)   // 402/100.50
	assert.Equal(t, "2024-05-10", metric.Date.Format("2006-01-02"))
}

func TestGetDailyMetrics_ConversionPriorityPrefersPixelPurchase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newTestIntegrator(ctrl, config.Revenue{})

	client.EXPECT().
		GetDailyInsights("C1", "campaign", gomock.Any()).
		Return([]metadomain.DailyInsight{
			{
				DateStart:   "2024-05-10",
				Spend:       "10",
				Impressions: "100",
				Clicks:      "10",
				Actions: []metadomain.Action{
					{ActionType: "lead", Value: "7"},
					{ActionType: "offsite_conversion.fb_pixel_purchase", Value: "3"},
					{ActionType: "purchase", Value: "5"},
				},
			},
		}, nil)

	metrics, err := integrator.GetDailyMetrics("C1", domain.EntityTypeCampaign, domain.NewInsightFilters(7))

	assert.NoError(t, err)
	assert.Len(t, metrics, 1)
	assert.Equal(t, 3, metrics[0].Conversions)
}

func TestGetDailyMetrics_RevenueFallbackOnlyWhenEnabled(t *testing.T) {
	insight := metadomain.DailyInsight{
		DateStart:   "2024-05-10",
		Spend:       "50",
		Impressions: "500",
		Clicks:      "20",
		Actions: []metadomain.Action{
			{ActionType: "purchase", Value: "2"},
		},
		// Sem action_values: nenhuma receita real reportada
	}

	tests := []struct {
		name     string
		revenue  config.Revenue
		expected float64
	}{
		{
			name:     "Fallback desabilitado mantém receita zero",
			revenue:  config.Revenue{FallbackEnabled: false, AssumedOrderValue: 80},
			expected: 0,
		},
		{
			name:     "Fallback habilitado presume valor médio de pedido",
			revenue:  config.Revenue{FallbackEnabled: true, AssumedOrderValue: 80},
			expected: 160, // 2 conversões * 80
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			integrator, client := newTestIntegrator(ctrl, tt.revenue)

			client.EXPECT().
				GetDailyInsights("C1", "campaign", gomock.Any()).
				Return([]metadomain.DailyInsight{insight}, nil)

			metrics, err := integrator.GetDailyMetrics("C1", domain.EntityTypeCampaign, domain.NewInsightFilters(7))

			assert.NoError(t, err)
			assert.Len(t, metrics, 1)
			assert.Equal(t, tt.expected, metrics[0].Revenue)
		})
	}
}

func TestGetDailyMetrics_UnparseableDateSkipsRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newTestIntegrator(ctrl, config.Revenue{})

	client.EXPECT().
		GetDailyInsights("C1", "campaign", gomock.Any()).
		Return([]metadomain.DailyInsight{
			{DateStart: "10/05/2024", Spend: "10"},
			{DateStart: "2024-05-11", Spend: "20", Impressions: "100", Clicks: "5"},
		}, nil)

	metrics, err := integrator.GetDailyMetrics("C1", domain.EntityTypeCampaign, domain.NewInsightFilters(7))

	assert.NoError(t, err)
	assert.Len(t, metrics, 1)
	assert.Equal(t, "2024-05-11", metrics[0].Date.Format("2006-01-02"))
}

func TestListAdSets_EffectiveBudgetFallsBackToLifetime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newTestIntegrator(ctrl, config.Revenue{})

	client.EXPECT().ListAdSets("act_123").Return([]metadomain.AdSet{
		{ID: "AS1", CampaignID: "C1", LifetimeBudget: "200000"},
	}, nil)

	adSets, err := integrator.ListAdSets()

	assert.NoError(t, err)
	assert.Len(t, adSets, 1)
	assert.NotNil(t, adSets[0].Budget)
	assert.Equal(t, 2000.0, *adSets[0].Budget)
}
