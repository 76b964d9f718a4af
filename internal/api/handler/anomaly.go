package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/infrastructure/repository"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/analyzing"
	"github.com/vfg2006/ads-sync-engine/pkg/apiErrors"
)

const defaultAnomalyListLimit = 50

// ListAnomalies responde com as anomalias persistidas mais recentes
func ListAnomalies(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := defaultAnomalyListLimit
		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			parsed, err := strconv.Atoi(limitParam)
			if err != nil || parsed < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", map[string]any{
					"limit": limitParam,
				})
				return
			}
			limit = parsed
		}

		anomalies, err := service.ListAnomalies(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar anomalias")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar anomalias", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(anomalies); err != nil {
			logrus.WithError(err).Error("Erro ao serializar anomalias")
		}
	})
}

// ResolveAnomaly marca uma anomalia como resolvida
func ResolveAnomaly(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Identificador da anomalia não informado", nil)
			return
		}

		if err := service.ResolveAnomaly(r.Context(), id); err != nil {
			if errors.Is(err, repository.ErrAnomalyNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Anomalia não encontrada", map[string]any{
					"id": id,
				})
				return
			}

			logrus.WithError(err).WithField("id", id).Error("Erro ao resolver anomalia")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver anomalia", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
