package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"github.com/vfg2006/ads-sync-engine/pkg/utils"
)

// Service orquestra a sincronização completa: campanhas, conjuntos de
// anúncios, anúncios e métricas diárias, nessa ordem. A falha de uma fase
// não interrompe as seguintes; a falha de uma entidade não interrompe as
// demais da mesma fase.
type Service struct {
	cfg          *config.Config
	metaService  meta.Integrator
	campaignRepo repository.CampaignRepository
	adSetRepo    repository.AdSetRepository
	adRepo       repository.AdRepository
	metricRepo   repository.DailyMetricRepository
	state        *syncState
	sleep        func(time.Duration)
}

// NewService cria uma nova instância do orquestrador de sincronização
func NewService(
	cfg *config.Config,
	metaService meta.Integrator,
	campaignRepo repository.CampaignRepository,
	adSetRepo repository.AdSetRepository,
	adRepo repository.AdRepository,
	metricRepo repository.DailyMetricRepository,
) *Service {
	return &Service{
		cfg:          cfg,
		metaService:  metaService,
		campaignRepo: campaignRepo,
		adSetRepo:    adSetRepo,
		adRepo:       adRepo,
		metricRepo:   metricRepo,
		state:        &syncState{},
		sleep:        time.Sleep,
	}
}

// Status retorna o estado atual do orquestrador
func (s *Service) Status() *SyncStatus {
	return s.state.status()
}

// RunFullSync executa as quatro fases em ordem e retorna o resultado
// estruturado da execução. No máximo uma execução por vez: gatilhos
// concorrentes recebem ErrSyncInProgress sem enfileirar.
func (s *Service) RunFullSync(ctx context.Context) (*domain.SyncResult, error) {
	if err := s.state.tryStart(); err != nil {
		logrus.Info("Sincronização completa já em andamento, gatilho rejeitado")
		return nil, err
	}

	startedAt := time.Now()

	runID, err := utils.GenerateID()
	if err != nil {
		runID = startedAt.Format("20060102150405")
	}

	result := &domain.SyncResult{
		RunID:  runID,
		Errors: []string{},
	}

	defer func() {
		result.Finish(startedAt)
		s.state.finish(result)

		logrus.WithFields(logrus.Fields{
			"run_id":   result.RunID,
			"success":  result.Success,
			"errors":   len(result.Errors),
			"duration": result.Duration.String(),
		}).Info("Sincronização completa finalizada")
	}()

	logrus.WithField("run_id", runID).Info("Iniciando sincronização completa")

	s.syncCampaigns(ctx, result)
	s.syncAdSets(ctx, result)
	s.syncAds(ctx, result)
	s.syncMetrics(ctx, result)

	return result, nil
}

// syncCampaigns executa a fase de campanhas
func (s *Service) syncCampaigns(ctx context.Context, result *domain.SyncResult) {
	if canceled(ctx, result) {
		return
	}

	campaigns, err := s.metaService.ListCampaigns()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar campanhas do Meta")
		result.Errors = append(result.Errors, fmt.Sprintf("campaigns: %v", err))
		return
	}

	for _, campaign := range campaigns {
		if canceled(ctx, result) {
			return
		}

		existing, err := s.campaignRepo.GetByCampaignID(ctx, campaign.CampaignID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("campaigns: %s: %v", campaign.CampaignID, err))
			continue
		}

		if err := s.campaignRepo.SaveOrUpdate(ctx, campaign); err != nil {
			logrus.WithError(err).WithField("campaign_id", campaign.CampaignID).Error("Erro ao salvar campanha")
			result.Errors = append(result.Errors, fmt.Sprintf("campaigns: %s: %v", campaign.CampaignID, err))
			continue
		}

		if existing == nil {
			result.Campaigns.Created++
		} else {
			result.Campaigns.Updated++
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": result.Campaigns.Created,
		"updated": result.Campaigns.Updated,
	}).Info("Fase de campanhas concluída")
}

// syncAdSets executa a fase de conjuntos de anúncios
func (s *Service) syncAdSets(ctx context.Context, result *domain.SyncResult) {
	if canceled(ctx, result) {
		return
	}

	adSets, err := s.metaService.ListAdSets()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar conjuntos de anúncios do Meta")
		result.Errors = append(result.Errors, fmt.Sprintf("adsets: %v", err))
		return
	}

	for _, adSet := range adSets {
		if canceled(ctx, result) {
			return
		}

		existing, err := s.adSetRepo.GetByAdSetID(ctx, adSet.AdSetID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("adsets: %s: %v", adSet.AdSetID, err))
			continue
		}

		if err := s.adSetRepo.SaveOrUpdate(ctx, adSet); err != nil {
			logrus.WithError(err).WithField("adset_id", adSet.AdSetID).Error("Erro ao salvar conjunto de anúncios")
			result.Errors = append(result.Errors, fmt.Sprintf("adsets: %s: %v", adSet.AdSetID, err))
			continue
		}

		if existing == nil {
			result.AdSets.Created++
		} else {
			result.AdSets.Updated++
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": result.AdSets.Created,
		"updated": result.AdSets.Updated,
	}).Info("Fase de conjuntos de anúncios concluída")
}

// syncAds executa a fase de anúncios
func (s *Service) syncAds(ctx context.Context, result *domain.SyncResult) {
	if canceled(ctx, result) {
		return
	}

	ads, err := s.metaService.ListAds()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar anúncios do Meta")
		result.Errors = append(result.Errors, fmt.Sprintf("ads: %v", err))
		return
	}

	for _, ad := range ads {
		if canceled(ctx, result) {
			return
		}

		existing, err := s.adRepo.GetByAdID(ctx, ad.AdID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("ads: %s: %v", ad.AdID, err))
			continue
		}

		if err := s.adRepo.SaveOrUpdate(ctx, ad); err != nil {
			logrus.WithError(err).WithField("ad_id", ad.AdID).Error("Erro ao salvar anúncio")
			result.Errors = append(result.Errors, fmt.Sprintf("ads: %s: %v", ad.AdID, err))
			continue
		}

		if existing == nil {
			result.Ads.Created++
		} else {
			result.Ads.Updated++
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": result.Ads.Created,
		"updated": result.Ads.Updated,
	}).Info("Fase de anúncios concluída")
}

// syncEntityRef identifica uma entidade elegível para a fase de métricas
type syncEntityRef struct {
	id         string
	entityType domain.EntityType
}

// syncMetrics executa a fase de métricas diárias para todas as entidades já
// persistidas. As entidades vêm do banco, e não da resposta do Meta desta
// execução, então entidades de execuções anteriores continuam cobertas mesmo
// quando uma fase de listagem falha.
func (s *Service) syncMetrics(ctx context.Context, result *domain.SyncResult) {
	if canceled(ctx, result) {
		return
	}

	entities, err := s.listSyncedEntities(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar entidades para a fase de métricas")
		result.Errors = append(result.Errors, fmt.Sprintf("metrics: %v", err))
		return
	}

	if len(entities) == 0 {
		logrus.Info("Nenhuma entidade persistida para a fase de métricas")
		return
	}

	filters := domain.NewInsightFilters(s.cfg.FullSync.LookbackDays)
	requestDelay := time.Duration(s.cfg.FullSync.RequestDelaySeconds) * time.Second

	logrus.WithFields(logrus.Fields{
		"entities":   len(entities),
		"start_date": filters.StartDate.Format(time.DateOnly),
		"end_date":   filters.EndDate.Format(time.DateOnly),
	}).Info("Iniciando fase de métricas diárias")

	for i, entity := range entities {
		if canceled(ctx, result) {
			return
		}

		if i > 0 && requestDelay > 0 {
			s.sleep(requestDelay)
		}

		metrics, err := s.metaService.GetDailyMetrics(entity.id, entity.entityType, filters)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"entity_id":   entity.id,
				"entity_type": entity.entityType,
			}).Error("Erro ao buscar métricas diárias, pulando entidade")
			result.Errors = append(result.Errors, fmt.Sprintf("metrics: %s/%s: %v", entity.entityType, entity.id, err))
			continue
		}

		for _, metric := range metrics {
			existing, err := s.metricRepo.FindByNaturalKey(ctx, metric.EntityID, metric.EntityType, metric.Date)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("metrics: %s/%s: %v", entity.entityType, entity.id, err))
				continue
			}

			if err := s.metricRepo.SaveOrUpdate(ctx, metric); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("metrics: %s/%s: %v", entity.entityType, entity.id, err))
				continue
			}

			if existing == nil {
				result.Metrics.Created++
			} else {
				result.Metrics.Updated++
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": result.Metrics.Created,
		"updated": result.Metrics.Updated,
	}).Info("Fase de métricas diárias concluída")
}

// listSyncedEntities monta a lista de entidades elegíveis para métricas na
// ordem campanhas, conjuntos e anúncios
func (s *Service) listSyncedEntities(ctx context.Context) ([]syncEntityRef, error) {
	campaigns, err := s.campaignRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar campanhas persistidas: %w", err)
	}

	adSets, err := s.adSetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar conjuntos persistidos: %w", err)
	}

	ads, err := s.adRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar anúncios persistidos: %w", err)
	}

	entities := make([]syncEntityRef, 0, len(campaigns)+len(adSets)+len(ads))
	for _, campaign := range campaigns {
		entities = append(entities, syncEntityRef{id: campaign.CampaignID, entityType: domain.EntityTypeCampaign})
	}
	for _, adSet := range adSets {
		entities = append(entities, syncEntityRef{id: adSet.AdSetID, entityType: domain.EntityTypeAdSet})
	}
	for _, ad := range ads {
		entities = append(entities, syncEntityRef{id: ad.AdID, entityType: domain.EntityTypeAd})
	}

	return entities, nil
}

// canceled registra o cancelamento do contexto uma única vez e informa se a
// execução deve parar
func canceled(ctx context.Context, result *domain.SyncResult) bool {
	if ctx.Err() == nil {
		return false
	}

	for _, e := range result.Errors {
		if e == "sync cancelado" {
			return true
		}
	}

	logrus.Warn("Contexto cancelado durante a sincronização, interrompendo")
	result.Errors = append(result.Errors, "sync cancelado")

	return true
}
