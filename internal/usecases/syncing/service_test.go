package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	metamocks "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	meta         *metamocks.MockIntegrator
	campaignRepo *mocks.MockCampaignRepository
	adSetRepo    *mocks.MockAdSetRepository
	adRepo       *mocks.MockAdRepository
	metricRepo   *mocks.MockDailyMetricRepository
}

func newTestService(ctrl *gomock.Controller) (*Service, *serviceMocks) {
	m := &serviceMocks{
		meta:         metamocks.NewMockIntegrator(ctrl),
		campaignRepo: mocks.NewMockCampaignRepository(ctrl),
		adSetRepo:    mocks.NewMockAdSetRepository(ctrl),
		adRepo:       mocks.NewMockAdRepository(ctrl),
		metricRepo:   mocks.NewMockDailyMetricRepository(ctrl),
	}

	cfg := &config.Config{
		FullSync: config.FullSync{
			LookbackDays:        7,
			RequestDelaySeconds: 0,
		},
	}

	service := &Service{
		cfg:          cfg,
		metaService:  m.meta,
		campaignRepo: m.campaignRepo,
		adSetRepo:    m.adSetRepo,
		adRepo:       m.adRepo,
		metricRepo:   m.metricRepo,
		state:        &syncState{},
		sleep:        func(time.Duration) {},
	}

	return service, m
}

func TestRunFullSync_AllPhasesSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	campaign := &domain.Campaign{CampaignID: "C1", Name: "Campanha A"}
	adSet := &domain.AdSet{AdSetID: "AS1", CampaignID: "C1", Name: "Conjunto A"}
	ad := &domain.Ad{AdID: "AD1", AdSetID: "AS1", Name: "Anúncio A"}

	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	metric := &domain.DailyMetric{EntityID: "C1", EntityType: domain.EntityTypeCampaign, Date: date, Spend: 100}

	// Fase de campanhas: entidade nova
	m.meta.EXPECT().ListCampaigns().Return([]*domain.Campaign{campaign}, nil)
	m.campaignRepo.EXPECT().GetByCampaignID(gomock.Any(), "C1").Return(nil, nil)
	m.campaignRepo.EXPECT().SaveOrUpdate(gomock.Any(), campaign).Return(nil)

	// Fase de conjuntos: entidade já existente
	m.meta.EXPECT().ListAdSets().Return([]*domain.AdSet{adSet}, nil)
	m.adSetRepo.EXPECT().GetByAdSetID(gomock.Any(), "AS1").Return(adSet, nil)
	m.adSetRepo.EXPECT().SaveOrUpdate(gomock.Any(), adSet).Return(nil)

	// Fase de anúncios: entidade nova
	m.meta.EXPECT().ListAds().Return([]*domain.Ad{ad}, nil)
	m.adRepo.EXPECT().GetByAdID(gomock.Any(), "AD1").Return(nil, nil)
	m.adRepo.EXPECT().SaveOrUpdate(gomock.Any(), ad).Return(nil)

	// Fase de métricas: entidades vêm do banco
	m.campaignRepo.EXPECT().List(gomock.Any()).Return([]*domain.Campaign{campaign}, nil)
	m.adSetRepo.EXPECT().List(gomock.Any()).Return([]*domain.AdSet{}, nil)
	m.adRepo.EXPECT().List(gomock.Any()).Return([]*domain.Ad{}, nil)
	m.meta.EXPECT().GetDailyMetrics("C1", domain.EntityTypeCampaign, gomock.Any()).Return([]*domain.DailyMetric{metric}, nil)
	m.metricRepo.EXPECT().FindByNaturalKey(gomock.Any(), "C1", domain.EntityTypeCampaign, date).Return(nil, nil)
	m.metricRepo.EXPECT().SaveOrUpdate(gomock.Any(), metric).Return(nil)

	result, err := service.RunFullSync(context.Background())

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, domain.PhaseCount{Created: 1, Updated: 0}, result.Campaigns)
	assert.Equal(t, domain.PhaseCount{Created: 0, Updated: 1}, result.AdSets)
	assert.Equal(t, domain.PhaseCount{Created: 1, Updated: 0}, result.Ads)
	assert.Equal(t, domain.PhaseCount{Created: 1, Updated: 0}, result.Metrics)
	assert.NotEmpty(t, result.RunID)
}

func TestRunFullSync_PhaseFailureDoesNotStopFollowingPhases(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	adSet := &domain.AdSet{AdSetID: "AS1", CampaignID: "C1"}

	// Fase de campanhas falha inteira
	m.meta.EXPECT().ListCampaigns().Return(nil, errors.New("limite de requisições excedido"))

	// Fase de conjuntos continua normalmente
	m.meta.EXPECT().ListAdSets().Return([]*domain.AdSet{adSet}, nil)
	m.adSetRepo.EXPECT().GetByAdSetID(gomock.Any(), "AS1").Return(nil, nil)
	m.adSetRepo.EXPECT().SaveOrUpdate(gomock.Any(), adSet).Return(nil)

	m.meta.EXPECT().ListAds().Return([]*domain.Ad{}, nil)

	m.campaignRepo.EXPECT().List(gomock.Any()).Return([]*domain.Campaign{}, nil)
	m.adSetRepo.EXPECT().List(gomock.Any()).Return([]*domain.AdSet{adSet}, nil)
	m.adRepo.EXPECT().List(gomock.Any()).Return([]*domain.Ad{}, nil)
	m.meta.EXPECT().GetDailyMetrics("AS1", domain.EntityTypeAdSet, gomock.Any()).Return([]*domain.DailyMetric{}, nil)

	result, err := service.RunFullSync(context.Background())

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "campaigns:")
	assert.Equal(t, domain.PhaseCount{Created: 1, Updated: 0}, result.AdSets)
}

func TestRunFullSync_EntityFailureDoesNotStopPhase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	broken := &domain.Campaign{CampaignID: "C1"}
	healthy := &domain.Campaign{CampaignID: "C2"}

	m.meta.EXPECT().ListCampaigns().Return([]*domain.Campaign{broken, healthy}, nil)
	m.campaignRepo.EXPECT().GetByCampaignID(gomock.Any(), "C1").Return(nil, nil)
	m.campaignRepo.EXPECT().SaveOrUpdate(gomock.Any(), broken).Return(errors.New("violação de constraint"))
	m.campaignRepo.EXPECT().GetByCampaignID(gomock.Any(), "C2").Return(nil, nil)
	m.campaignRepo.EXPECT().SaveOrUpdate(gomock.Any(), healthy).Return(nil)

	m.meta.EXPECT().ListAdSets().Return([]*domain.AdSet{}, nil)
	m.meta.EXPECT().ListAds().Return([]*domain.Ad{}, nil)

	m.campaignRepo.EXPECT().List(gomock.Any()).Return([]*domain.Campaign{}, nil)
	m.adSetRepo.EXPECT().List(gomock.Any()).Return([]*domain.AdSet{}, nil)
	m.adRepo.EXPECT().List(gomock.Any()).Return([]*domain.Ad{}, nil)

	result, err := service.RunFullSync(context.Background())

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "C1")
	assert.Equal(t, domain.PhaseCount{Created: 1, Updated: 0}, result.Campaigns)
}

func TestRunFullSync_MetricsEntityFailureSkipsOnlyThatEntity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, m := newTestService(ctrl)

	campaignA := &domain.Campaign{CampaignID: "C1"}
	campaignB := &domain.Campaign{CampaignID: "C2"}
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	metric := &domain.DailyMetric{EntityID: "C2", EntityType: domain.EntityTypeCampaign, Date: date}

	m.meta.EXPECT().ListCampaigns().Return([]*domain.Campaign{}, nil)
	m.meta.EXPECT().ListAdSets().Return([]*domain.AdSet{}, nil)
	m.meta.EXPECT().ListAds().Return([]*domain.Ad{}, nil)

	m.campaignRepo.EXPECT().List(gomock.Any()).Return([]*domain.Campaign{campaignA, campaignB}, nil)
	m.adSetRepo.EXPECT().List(gomock.Any()).Return([]*domain.AdSet{}, nil)
	m.adRepo.EXPECT().List(gomock.Any()).Return([]*domain.Ad{}, nil)

	m.meta.EXPECT().GetDailyMetrics("C1", domain.EntityTypeCampaign, gomock.Any()).Return(nil, errors.New("timeout"))
	m.meta.EXPECT().GetDailyMetrics("C2", domain.EntityTypeCampaign, gomock.Any()).Return([]*domain.DailyMetric{metric}, nil)
	m.metricRepo.EXPECT().FindByNaturalKey(gomock.Any(), "C2", domain.EntityTypeCampaign, date).Return(metric, nil)
	m.metricRepo.EXPECT().SaveOrUpdate(gomock.Any(), metric).Return(nil)

	result, err := service.RunFullSync(context.Background())

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "metrics: campaign/C1")
	assert.Equal(t, domain.PhaseCount{Created: 0, Updated: 1}, result.Metrics)
}

func TestRunFullSync_RejectsConcurrentTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _ := newTestService(ctrl)

	// Simula uma execução em andamento
	assert.NoError(t, service.state.tryStart())

	result, err := service.RunFullSync(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	status := service.Status()
	assert.True(t, status.Running)
}

func TestRunFullSync_CanceledContextRecordsSingleError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _ := newTestService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := service.RunFullSync(ctx)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"sync cancelado"}, result.Errors)

	status := service.Status()
	assert.False(t, status.Running)
	assert.Equal(t, result, status.LastResult)
}
