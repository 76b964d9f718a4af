package syncing

import (
	"context"

	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

// Syncer define a interface do orquestrador de sincronização completa
type Syncer interface {
	// RunFullSync executa as quatro fases de sincronização em ordem:
	// campanhas, conjuntos de anúncios, anúncios e métricas diárias.
	// Retorna ErrSyncInProgress quando outra execução já está em andamento.
	RunFullSync(ctx context.Context) (*domain.SyncResult, error)

	// Status retorna o estado atual do orquestrador (em execução ou não) e
	// o resultado da última execução concluída
	Status() *SyncStatus
}
