package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	metadomain "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

const insightFields = "spend,impressions,clicks,actions,action_values,cpc,ctr,cpm,frequency,reach,date_start,date_stop"

// GetDailyInsights busca as métricas diárias de uma entidade no período dos
// filtros, com granularidade de um dia (time_increment=1)
func (c *MetaClient) GetDailyInsights(entityID string, level string, filters *domain.InsightFilters) ([]metadomain.DailyInsight, error) {
	if filters == nil || filters.StartDate == nil || filters.EndDate == nil {
		return nil, errors.New("é necessário informar as datas de início e fim")
	}

	baseURL := fmt.Sprintf("%s/%s/insights", c.cfg.Meta.URL, entityID)

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}",
		filters.StartDate.Format(time.DateOnly),
		filters.EndDate.Format(time.DateOnly),
	)

	params := url.Values{}
	params.Add("fields", insightFields)
	params.Add("time_range", timeRange)
	params.Add("time_increment", "1")
	params.Add("level", level)

	items, err := c.fetchAll(baseURL, params)
	if err != nil {
		return nil, err
	}

	insights := make([]metadomain.DailyInsight, 0, len(items))
	for _, item := range items {
		var insight metadomain.DailyInsight
		if err := json.Unmarshal(item, &insight); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar insight diário")
		}
		insights = append(insights, insight)
	}

	return insights, nil
}
