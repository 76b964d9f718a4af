package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Meta             Meta             `mapstructure:",squash"`
	Gemini           Gemini           `mapstructure:",squash"`
	FullSync         FullSync         `mapstructure:",squash"`
	AnomalyDetection AnomalyDetection `mapstructure:",squash"`
	Revenue          Revenue          `mapstructure:",squash"`
	Pacing           Pacing           `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL               string `mapstructure:"meta_base_url"`
	URL                   string `mapstructure:"-"`
	Version               string `mapstructure:"meta_version"`
	AccessToken           string `mapstructure:"meta_access_token"`
	AdAccountID           string `mapstructure:"meta_ad_account_id"`
	PageSize              int    `mapstructure:"meta_page_size"`
	RequestTimeoutSeconds int    `mapstructure:"meta_request_timeout_seconds"`
	MaxRetries            int    `mapstructure:"meta_max_retries"`
	RetryBaseDelayMS      int    `mapstructure:"meta_retry_base_delay_ms"`
}

type Gemini struct {
	APIKey  string `mapstructure:"gemini_api_key"`
	Model   string `mapstructure:"gemini_model"`
	Enabled bool   `mapstructure:"gemini_enabled"`
}

type FullSync struct {
	CronSchedule        string `mapstructure:"full_sync_cron"`
	LookbackDays        int    `mapstructure:"full_sync_lookback_days"`
	RequestDelaySeconds int    `mapstructure:"full_sync_request_delay_seconds"`
	Enabled             bool   `mapstructure:"full_sync_enabled"`
}

type AnomalyDetection struct {
	CronSchedule     string  `mapstructure:"anomaly_detection_cron"`
	WindowDays       int     `mapstructure:"anomaly_detection_window_days"`
	ThresholdPercent float64 `mapstructure:"anomaly_detection_threshold_percent"`
	MaxExplained     int     `mapstructure:"anomaly_detection_max_explained"`
	Enabled          bool    `mapstructure:"anomaly_detection_enabled"`
}

type Revenue struct {
	FallbackEnabled   bool    `mapstructure:"revenue_fallback_enabled"`
	AssumedOrderValue float64 `mapstructure:"revenue_assumed_order_value"`
}

type Pacing struct {
	UTCOffsetMinutes int `mapstructure:"pacing_utc_offset_minutes"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_engine")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_PAGE_SIZE", 100)              // Itens por página nas listagens
	viper.SetDefault("META_REQUEST_TIMEOUT_SECONDS", 30) // Timeout por chamada HTTP
	viper.SetDefault("META_MAX_RETRIES", 4)              // Retentativas para falhas transitórias
	viper.SetDefault("META_RETRY_BASE_DELAY_MS", 2000)   // Base do backoff exponencial

	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("GEMINI_ENABLED", false)

	viper.SetDefault("FULL_SYNC_CRON", "0 3 * * *")        // Todos os dias às 3h da manhã
	viper.SetDefault("FULL_SYNC_LOOKBACK_DAYS", 7)         // 7 dias para buscar dados
	viper.SetDefault("FULL_SYNC_REQUEST_DELAY_SECONDS", 2) // 2 segundos entre requisições
	viper.SetDefault("FULL_SYNC_ENABLED", false)

	viper.SetDefault("ANOMALY_DETECTION_CRON", "0 6 * * *")     // Todos os dias às 6h da manhã
	viper.SetDefault("ANOMALY_DETECTION_WINDOW_DAYS", 14)       // Janela de histórico
	viper.SetDefault("ANOMALY_DETECTION_THRESHOLD_PERCENT", 25) // Desvio mínimo para anomalia
	viper.SetDefault("ANOMALY_DETECTION_MAX_EXPLAINED", 5)      // Máximo de anomalias explicadas por execução
	viper.SetDefault("ANOMALY_DETECTION_ENABLED", false)

	viper.SetDefault("REVENUE_FALLBACK_ENABLED", false)
	viper.SetDefault("REVENUE_ASSUMED_ORDER_VALUE", 0)

	viper.SetDefault("PACING_UTC_OFFSET_MINUTES", 330) // UTC+5:30, referência de calendário do negócio

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica as credenciais obrigatórias, listando todas as
// variáveis ausentes de uma vez
func (c *Config) Validate() error {
	var missing []string

	if c.Meta.AccessToken == "" {
		missing = append(missing, "META_ACCESS_TOKEN")
	}
	if c.Meta.AdAccountID == "" {
		missing = append(missing, "META_AD_ACCOUNT_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
