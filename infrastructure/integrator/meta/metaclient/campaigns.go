package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	metadomain "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/domain"
)

const campaignFields = "id,name,status,effective_status,objective,daily_budget,lifetime_budget"

// ListCampaigns lista todas as campanhas da conta, seguindo a paginação até
// a última página
func (c *MetaClient) ListCampaigns(accountID string) ([]metadomain.Campaign, error) {
	baseURL := fmt.Sprintf("%s/act_%s/campaigns", c.cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("fields", campaignFields)
	params.Add("limit", strconv.Itoa(c.cfg.Meta.PageSize))

	items, err := c.fetchAll(baseURL, params)
	if err != nil {
		return nil, err
	}

	campaigns := make([]metadomain.Campaign, 0, len(items))
	for _, item := range items {
		var campaign metadomain.Campaign
		if err := json.Unmarshal(item, &campaign); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar campanha")
		}
		campaigns = append(campaigns, campaign)
	}

	return campaigns, nil
}
