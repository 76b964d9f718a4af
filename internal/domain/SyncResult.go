package domain

import "time"

// PhaseCount acumula o resultado da reconciliação de uma fase de sincronização
type PhaseCount struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// SyncResult é o resultado estruturado de uma execução completa de
// sincronização. Success é verdadeiro somente quando a lista de erros está
// vazia; sucesso parcial (algumas fases ok, outras com falha) é um resultado
// válido e comum, então os consumidores devem inspecionar ambos os campos.
type SyncResult struct {
	RunID     string        `json:"run_id"`
	Campaigns PhaseCount    `json:"campaigns"`
	AdSets    PhaseCount    `json:"adsets"`
	Ads       PhaseCount    `json:"ads"`
	Metrics   PhaseCount    `json:"metrics"`
	Errors    []string      `json:"errors"`
	Success   bool          `json:"success"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Finish fecha o resultado calculando a duração e o indicador de sucesso
func (r *SyncResult) Finish(startedAt time.Time) {
	r.Duration = time.Since(startedAt)
	r.Timestamp = time.Now()
	r.Success = len(r.Errors) == 0
}
