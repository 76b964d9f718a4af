package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/analyzing"
)

// AnomalyDetectionService gerencia o agendamento da detecção de anomalias
// sobre o histórico de métricas diárias
type AnomalyDetectionService struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config
	analyzer  analyzing.Analyzer
}

// NewAnomalyDetectionService cria uma nova instância do agendador de detecção de anomalias
func NewAnomalyDetectionService(analyzer analyzing.Analyzer, cfg *config.Config) *AnomalyDetectionService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":     cfg.AnomalyDetection.CronSchedule,
		"window_days":       cfg.AnomalyDetection.WindowDays,
		"threshold_percent": cfg.AnomalyDetection.ThresholdPercent,
		"max_explained":     cfg.AnomalyDetection.MaxExplained,
		"enabled":           cfg.AnomalyDetection.Enabled,
	}).Info("Configuração do agendador de detecção de anomalias carregada")

	return &AnomalyDetectionService{
		scheduler: scheduler,
		cfg:       cfg,
		analyzer:  analyzer,
	}
}

// Start inicia o agendador
func (s *AnomalyDetectionService) Start(ctx context.Context) error {
	if !s.cfg.AnomalyDetection.Enabled {
		logrus.Info("Detecção de anomalias desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.cfg.AnomalyDetection.CronSchedule).Info("Iniciando agendador de detecção de anomalias")

	_, err := s.scheduler.Cron(s.cfg.AnomalyDetection.CronSchedule).Do(func() {
		s.runDetection(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar detecção de anomalias: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de detecção de anomalias")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualDetection executa manualmente uma rodada de detecção
func (s *AnomalyDetectionService) TriggerManualDetection() {
	logrus.Info("Iniciando detecção de anomalias manual")
	go s.runDetection(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *AnomalyDetectionService) GetStatus() map[string]any {
	return map[string]any{
		"enabled":           s.cfg.AnomalyDetection.Enabled,
		"cron":              s.cfg.AnomalyDetection.CronSchedule,
		"window_days":       s.cfg.AnomalyDetection.WindowDays,
		"threshold_percent": s.cfg.AnomalyDetection.ThresholdPercent,
		"max_explained":     s.cfg.AnomalyDetection.MaxExplained,
	}
}

func (s *AnomalyDetectionService) runDetection(ctx context.Context) {
	anomalies, err := s.analyzer.DetectAnomalies(
		ctx,
		s.cfg.AnomalyDetection.WindowDays,
		s.cfg.AnomalyDetection.ThresholdPercent,
	)
	if err != nil {
		logrus.WithError(err).Error("Erro ao executar detecção de anomalias agendada")
		return
	}

	logrus.WithField("anomalies", len(anomalies)).Info("Detecção de anomalias agendada finalizada")
}
