package analyzing

import (
	"context"

	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

// Analyzer define a interface do detector de anomalias e da superfície de
// operação sobre anomalias persistidas
type Analyzer interface {
	// DetectAnomalies compara a métrica mais recente de cada entidade com a
	// média histórica da janela e retorna os desvios acima do limiar,
	// ordenados da anomalia mais grave para a menos grave
	DetectAnomalies(ctx context.Context, windowDays int, thresholdPercent float64) ([]*domain.Anomaly, error)

	// ListAnomalies retorna as anomalias persistidas mais recentes
	ListAnomalies(ctx context.Context, limit int) ([]*domain.Anomaly, error)

	// ResolveAnomaly marca uma anomalia como resolvida
	ResolveAnomaly(ctx context.Context, id string) error
}
