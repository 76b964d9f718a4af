package syncing

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

// ErrSyncInProgress indica que uma sincronização já está em andamento e que
// o gatilho concorrente foi rejeitado sem enfileirar
var ErrSyncInProgress = errors.New("sincronização já em andamento")

// SyncStatus é a visão externa do estado do orquestrador
type SyncStatus struct {
	Running     bool               `json:"running"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	LastResult  *domain.SyncResult `json:"last_result,omitempty"`
}

// syncState implementa o guarda de execução única: no máximo uma
// sincronização por processo, gatilhos concorrentes são rejeitados
type syncState struct {
	mu          sync.Mutex
	running     bool
	startedAt   time.Time
	completedAt time.Time
	lastResult  *domain.SyncResult
}

// tryStart marca o início de uma execução ou retorna ErrSyncInProgress
// quando outra já está rodando
func (s *syncState) tryStart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSyncInProgress
	}

	s.running = true
	s.startedAt = time.Now()

	return nil
}

// finish registra o resultado e libera o guarda para a próxima execução
func (s *syncState) finish(result *domain.SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.completedAt = time.Now()
	s.lastResult = result
}

func (s *syncState) status() *SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &SyncStatus{
		Running:    s.running,
		LastResult: s.lastResult,
	}

	if !s.startedAt.IsZero() {
		startedAt := s.startedAt
		status.StartedAt = &startedAt
	}
	if !s.completedAt.IsZero() {
		completedAt := s.completedAt
		status.CompletedAt = &completedAt
	}

	return status
}
