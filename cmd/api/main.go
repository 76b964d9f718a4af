package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sync-engine/infrastructure/integrator/gemini"
	"github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository"
	"github.com/vfg2006/ads-sync-engine/internal/api"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/scheduler"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/analyzing"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/reporting"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	campaignRepo := repository.NewCampaignRepository(pgConn)
	adSetRepo := repository.NewAdSetRepository(pgConn)
	adRepo := repository.NewAdRepository(pgConn)
	metricRepo := repository.NewDailyMetricRepository(pgConn)
	anomalyRepo := repository.NewAnomalyRepository(pgConn)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	explainer := gemini.NewExplainer(cfg)

	syncService := syncing.NewService(
		cfg,
		metaIntegrator,
		campaignRepo,
		adSetRepo,
		adRepo,
		metricRepo,
	)

	reportService := reporting.NewService(cfg, metricRepo, campaignRepo)

	analysisService := analyzing.NewService(cfg, metricRepo, anomalyRepo, explainer)

	// Inicializa os agendadores
	fullSyncService := scheduler.NewFullSyncService(syncService, cfg)
	anomalyDetectionService := scheduler.NewAnomalyDetectionService(analysisService, cfg)

	if err := fullSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização completa")
	} else {
		logrus.Info("Agendador de sincronização completa iniciado com sucesso")
	}

	if err := anomalyDetectionService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de detecção de anomalias")
	} else {
		logrus.Info("Agendador de detecção de anomalias iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		syncService,
		reportService,
		analysisService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
