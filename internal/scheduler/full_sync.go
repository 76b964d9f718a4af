package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/syncing"
)

// FullSyncService gerencia o agendamento da sincronização completa com o Meta
type FullSyncService struct {
	scheduler   *gocron.Scheduler
	cfg         *config.Config
	syncService syncing.Syncer
}

// NewFullSyncService cria uma nova instância do agendador de sincronização completa
func NewFullSyncService(syncService syncing.Syncer, cfg *config.Config) *FullSyncService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         cfg.FullSync.CronSchedule,
		"lookback_days":         cfg.FullSync.LookbackDays,
		"request_delay_seconds": cfg.FullSync.RequestDelaySeconds,
		"sync_enabled":          cfg.FullSync.Enabled,
	}).Info("Configuração do agendador de sincronização completa carregada")

	return &FullSyncService{
		scheduler:   scheduler,
		cfg:         cfg,
		syncService: syncService,
	}
}

// Start inicia o agendador
func (s *FullSyncService) Start(ctx context.Context) error {
	if !s.cfg.FullSync.Enabled {
		logrus.Info("Sincronização completa desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.cfg.FullSync.CronSchedule).Info("Iniciando agendador de sincronização completa")

	_, err := s.scheduler.Cron(s.cfg.FullSync.CronSchedule).Do(func() {
		s.runFullSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização completa: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização completa")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync inicia manualmente uma sincronização completa
func (s *FullSyncService) TriggerManualSync() {
	logrus.Info("Iniciando sincronização completa manual")
	go s.runFullSync(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *FullSyncService) GetStatus() map[string]any {
	status := s.syncService.Status()

	return map[string]any{
		"sync_enabled":         s.cfg.FullSync.Enabled,
		"sync_cron":            s.cfg.FullSync.CronSchedule,
		"sync_lookback_days":   s.cfg.FullSync.LookbackDays,
		"sync_request_delay_s": s.cfg.FullSync.RequestDelaySeconds,
		"sync_running":         status.Running,
		"last_sync_started_at": status.StartedAt,
		"last_sync_result":     status.LastResult,
	}
}

func (s *FullSyncService) runFullSync(ctx context.Context) {
	result, err := s.syncService.RunFullSync(ctx)
	if err != nil {
		if errors.Is(err, syncing.ErrSyncInProgress) {
			logrus.Info("Sincronização completa já em andamento, execução agendada ignorada")
			return
		}

		logrus.WithError(err).Error("Erro ao executar sincronização completa agendada")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  result.RunID,
		"success": result.Success,
		"errors":  len(result.Errors),
	}).Info("Sincronização completa agendada finalizada")
}
