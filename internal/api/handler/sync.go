package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/syncing"
	"github.com/vfg2006/ads-sync-engine/pkg/apiErrors"
	"github.com/vfg2006/ads-sync-engine/pkg/middleware"
)

// TriggerSync dispara uma sincronização completa e responde com o resultado
// estruturado da execução. Gatilhos concorrentes são rejeitados com 409.
func TriggerSync(service syncing.Syncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithField("correlation_id", middleware.GetCorrelationID(r.Context())).
			Info("Sincronização completa disparada via API")

		result, err := service.RunFullSync(r.Context())
		if err != nil {
			if errors.Is(err, syncing.ErrSyncInProgress) {
				apiErrors.WriteError(w, apiErrors.ErrSyncInProgress, "Sincronização já em andamento", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao executar sincronização completa")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar sincronização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.WithError(err).Error("Erro ao serializar resultado da sincronização")
		}
	})
}

// GetSyncStatus responde com o estado do orquestrador e o resultado da
// última execução
func GetSyncStatus(service syncing.Syncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := service.Status()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("Erro ao serializar status da sincronização")
		}
	})
}
