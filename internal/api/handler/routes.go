package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-sync-engine/internal/api/handler/router"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/analyzing"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/reporting"
	"github.com/vfg2006/ads-sync-engine/internal/usecases/syncing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sync(service syncing.Syncer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync",
			Method:  http.MethodPost,
			Handler: TriggerSync(service),
		},
		{
			Path:    "/v1/sync/status",
			Method:  http.MethodGet,
			Handler: GetSyncStatus(service),
		},
	}
}

func Metrics(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/metrics/:entityType/:entityId",
			Method:  http.MethodGet,
			Handler: GetEntityMetrics(service),
		},
	}
}

func Anomalies(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/anomalies",
			Method:  http.MethodGet,
			Handler: ListAnomalies(service),
		},
		{
			Path:    "/v1/anomalies/:id/resolve",
			Method:  http.MethodPost,
			Handler: ResolveAnomaly(service),
		},
	}
}
