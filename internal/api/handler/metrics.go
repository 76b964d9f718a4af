package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/reporting"
	"github.com/vfg2006/ads-sync-engine/pkg/apiErrors"
	"github.com/vfg2006/ads-sync-engine/pkg/utils"
)

var validEntityTypes = map[string]domain.EntityType{
	string(domain.EntityTypeCampaign): domain.EntityTypeCampaign,
	string(domain.EntityTypeAdSet):    domain.EntityTypeAdSet,
	string(domain.EntityTypeAd):       domain.EntityTypeAd,
}

// GetEntityMetrics responde com as métricas agregadas de uma entidade no
// período solicitado
func GetEntityMetrics(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		entityID := params.ByName("entityId")

		entityType, ok := validEntityTypes[params.ByName("entityType")]
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de entidade inválido", map[string]any{
				"entity_type": params.ByName("entityType"),
			})
			return
		}

		startParam := r.URL.Query().Get("start_date")
		endParam := r.URL.Query().Get("end_date")
		if startParam == "" || endParam == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetros start_date e end_date são obrigatórios", nil)
			return
		}

		startDate, err := utils.ParseDate(startParam)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data de início inválida", map[string]any{
				"start_date": startParam,
			})
			return
		}

		endDate, err := utils.ParseDate(endParam)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data de fim inválida", map[string]any{
				"end_date": endParam,
			})
			return
		}

		filters := &domain.InsightFilters{
			StartDate: startDate,
			EndDate:   endDate,
		}

		report, err := service.GetEntityMetrics(r.Context(), entityType, entityID, filters)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"entity_id":   entityID,
				"entity_type": entityType,
			}).Error("Erro ao montar relatório de métricas")

			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao consultar métricas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logrus.WithError(err).Error("Erro ao serializar relatório de métricas")
		}
	})
}
