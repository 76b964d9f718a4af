package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	metadomain "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/domain"
)

const adFields = "id,adset_id,name,status,creative{id,thumbnail_url,image_url,body,title}"

// ListAds lista todos os anúncios da conta, seguindo a paginação até a
// última página
func (c *MetaClient) ListAds(accountID string) ([]metadomain.Ad, error) {
	baseURL := fmt.Sprintf("%s/act_%s/ads", c.cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("fields", adFields)
	params.Add("limit", strconv.Itoa(c.cfg.Meta.PageSize))

	items, err := c.fetchAll(baseURL, params)
	if err != nil {
		return nil, err
	}

	ads := make([]metadomain.Ad, 0, len(items))
	for _, item := range items {
		var ad metadomain.Ad
		if err := json.Unmarshal(item, &ad); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar anúncio")
		}
		ads = append(ads, ad)
	}

	return ads, nil
}
