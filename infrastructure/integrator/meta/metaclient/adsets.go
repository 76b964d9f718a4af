package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	metadomain "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/domain"
)

const adSetFields = "id,campaign_id,name,status,daily_budget,lifetime_budget,targeting,optimization_goal,billing_event,bid_strategy"

// ListAdSets lista todos os conjuntos de anúncios da conta, seguindo a
// paginação até a última página
func (c *MetaClient) ListAdSets(accountID string) ([]metadomain.AdSet, error) {
	baseURL := fmt.Sprintf("%s/act_%s/adsets", c.cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("fields", adSetFields)
	params.Add("limit", strconv.Itoa(c.cfg.Meta.PageSize))

	items, err := c.fetchAll(baseURL, params)
	if err != nil {
		return nil, err
	}

	adSets := make([]metadomain.AdSet, 0, len(items))
	for _, item := range items {
		var adSet metadomain.AdSet
		if err := json.Unmarshal(item, &adSet); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar conjunto de anúncios")
		}
		adSets = append(adSets, adSet)
	}

	return adSets, nil
}
