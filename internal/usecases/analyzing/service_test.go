package analyzing

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	geminimocks "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/gemini/mocks"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func metricRow(entityID string, day int, spend float64) *domain.DailyMetric {
	return &domain.DailyMetric{
		EntityID:   entityID,
		EntityType: domain.EntityTypeCampaign,
		Date:       time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
		Spend:      spend,
	}
}

func newTestService(ctrl *gomock.Controller, maxExplained int) (*Service, *mocks.MockDailyMetricRepository, *mocks.MockAnomalyRepository, *geminimocks.MockAnomalyExplainer) {
	metricRepo := mocks.NewMockDailyMetricRepository(ctrl)
	anomalyRepo := mocks.NewMockAnomalyRepository(ctrl)
	explainer := geminimocks.NewMockAnomalyExplainer(ctrl)

	cfg := &config.Config{
		AnomalyDetection: config.AnomalyDetection{MaxExplained: maxExplained},
		Gemini:           config.Gemini{Enabled: true},
	}

	service := &Service{
		cfg:         cfg,
		metricRepo:  metricRepo,
		anomalyRepo: anomalyRepo,
		explainer:   explainer,
	}

	return service, metricRepo, anomalyRepo, explainer
}

func TestDetectAnomalies_SpendDeviationAboveThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, anomalyRepo, explainer := newTestService(ctrl, 5)

	// Histórico {10,12,11,13} (média 11.5) e observação mais recente 23
	rows := []*domain.DailyMetric{
		metricRow("C1", 1, 10),
		metricRow("C1", 2, 12),
		metricRow("C1", 3, 11),
		metricRow("C1", 4, 13),
		metricRow("C1", 5, 23),
	}

	metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)
	explainer.EXPECT().ExplainAnomaly(gomock.Any(), gomock.Any()).Return("gasto dobrou em relação à média", nil)
	anomalyRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	anomalies, err := service.DetectAnomalies(context.Background(), 14, 25)

	assert.NoError(t, err)
	assert.Len(t, anomalies, 1)

	anomaly := anomalies[0]
	assert.Equal(t, "C1", anomaly.EntityID)
	assert.Equal(t, "spend", anomaly.MetricName)
	assert.Equal(t, 11.5, anomaly.ExpectedValue)
	assert.Equal(t, 23.0, anomaly.ActualValue)
	assert.Equal(t, 100.0, anomaly.DeviationPercent)
	assert.Equal(t, domain.AnomalySeverityHigh, anomaly.Severity)
	assert.Equal(t, "gasto dobrou em relação à média", anomaly.AIExplanation)
	assert.NotEmpty(t, anomaly.ID)
}

func TestDetectAnomalies_GroupWithInsufficientHistoryIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, _, _ := newTestService(ctrl, 5)

	// Apenas 2 pontos: abaixo do mínimo de 3
	rows := []*domain.DailyMetric{
		metricRow("C1", 1, 10),
		metricRow("C1", 2, 100),
	}

	metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)

	anomalies, err := service.DetectAnomalies(context.Background(), 14, 25)

	assert.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectAnomalies_DeviationBelowThresholdIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, _, _ := newTestService(ctrl, 5)

	// Média histórica 10, observação 11: desvio de 10%, abaixo do limiar
	rows := []*domain.DailyMetric{
		metricRow("C1", 1, 10),
		metricRow("C1", 2, 10),
		metricRow("C1", 3, 11),
	}

	metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)

	anomalies, err := service.DetectAnomalies(context.Background(), 14, 25)

	assert.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectAnomalies_SeverityBuckets(t *testing.T) {
	tests := []struct {
		name     string
		latest   float64
		severity domain.AnomalySeverity
	}{
		{
			name:     "Desvio de 35% é severidade média",
			latest:   13.5,
			severity: domain.AnomalySeverityMedium,
		},
		{
			name:     "Desvio de 28% é severidade baixa",
			latest:   12.8,
			severity: domain.AnomalySeverityLow,
		},
		{
			name:     "Queda de 60% é severidade alta pelo valor absoluto",
			latest:   4,
			severity: domain.AnomalySeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, metricRepo, anomalyRepo, explainer := newTestService(ctrl, 5)

			// Baseline constante em 10
			rows := []*domain.DailyMetric{
				metricRow("C1", 1, 10),
				metricRow("C1", 2, 10),
				metricRow("C1", 3, 10),
				metricRow("C1", 4, tt.latest),
			}

			metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)
			explainer.EXPECT().ExplainAnomaly(gomock.Any(), gomock.Any()).Return("", nil)
			anomalyRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

			anomalies, err := service.DetectAnomalies(context.Background(), 14, 20)

			assert.NoError(t, err)
			assert.Len(t, anomalies, 1)
			assert.Equal(t, tt.severity, anomalies[0].Severity)
		})
	}
}

func TestDetectAnomalies_SortedBySeverityThenMagnitude(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, anomalyRepo, explainer := newTestService(ctrl, 5)

	rows := []*domain.DailyMetric{
		// C1: desvio de 40% (média)
		metricRow("C1", 1, 10),
		metricRow("C1", 2, 10),
		metricRow("C1", 3, 14),
		// C2: desvio de 100% (alta)
		metricRow("C2", 1, 10),
		metricRow("C2", 2, 10),
		metricRow("C2", 3, 20),
		// C3: desvio de 60% (alta, menor que C2)
		metricRow("C3", 1, 10),
		metricRow("C3", 2, 10),
		metricRow("C3", 3, 16),
	}

	metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)
	explainer.EXPECT().ExplainAnomaly(gomock.Any(), gomock.Any()).Return("", nil).Times(3)
	anomalyRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	anomalies, err := service.DetectAnomalies(context.Background(), 14, 25)

	assert.NoError(t, err)
	assert.Len(t, anomalies, 3)
	assert.Equal(t, "C2", anomalies[0].EntityID)
	assert.Equal(t, "C3", anomalies[1].EntityID)
	assert.Equal(t, "C1", anomalies[2].EntityID)
}

func TestDetectAnomalies_ExplanationFailureDoesNotBlockPersistence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, anomalyRepo, explainer := newTestService(ctrl, 5)

	rows := []*domain.DailyMetric{
		metricRow("C1", 1, 10),
		metricRow("C1", 2, 10),
		metricRow("C1", 3, 30),
	}

	metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)
	explainer.EXPECT().ExplainAnomaly(gomock.Any(), gomock.Any()).Return("", errors.New("serviço indisponível"))
	anomalyRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	anomalies, err := service.DetectAnomalies(context.Background(), 14, 25)

	assert.NoError(t, err)
	assert.Len(t, anomalies, 1)
	assert.Empty(t, anomalies[0].AIExplanation)
}

func TestDetectAnomalies_OnlyTopAnomaliesAreExplainedAndPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, metricRepo, anomalyRepo, explainer := newTestService(ctrl, 1)

	rows := []*domain.DailyMetric{
		metricRow("C1", 1, 10),
		metricRow("C1", 2, 10),
		metricRow("C1", 3, 14),
		metricRow("C2", 1, 10),
		metricRow("C2", 2, 10),
		metricRow("C2", 3, 20),
	}

	metricRepo.EXPECT().GetRecent(gomock.Any(), 14).Return(rows, nil)

	// Apenas a anomalia mais grave (C2) é explicada e persistida
	explainer.EXPECT().ExplainAnomaly(gomock.Any(), gomock.Any()).Return("pico de gasto", nil)
	anomalyRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	anomalies, err := service.DetectAnomalies(context.Background(), 14, 25)

	assert.NoError(t, err)
	assert.Len(t, anomalies, 2)
	assert.Equal(t, "pico de gasto", anomalies[0].AIExplanation)
	assert.Empty(t, anomalies[1].AIExplanation)
}
