package domain

import "time"

// EntityType identifica o nível da entidade dona de uma métrica diária
type EntityType string

const (
	EntityTypeCampaign EntityType = "campaign"
	EntityTypeAdSet    EntityType = "adset"
	EntityTypeAd       EntityType = "ad"
)

// DailyMetric é a entidade-fato central: uma linha por (entity_id,
// entity_type, date). As razões cpc/ctr/cpm/roas são válidas apenas para a
// própria linha e nunca devem ser tiradas em média simples entre linhas.
type DailyMetric struct {
	EntityID    string     `json:"entity_id"`
	EntityType  EntityType `json:"entity_type"`
	Date        time.Time  `json:"date"`
	Spend       float64    `json:"spend"`
	Impressions int        `json:"impressions"`
	Clicks      int        `json:"clicks"`
	Conversions int        `json:"conversions"`
	Revenue     float64    `json:"revenue"`
	CPC         float64    `json:"cpc"`
	CTR         float64    `json:"ctr"`
	CPM         float64    `json:"cpm"`
	ROAS        float64    `json:"roas"`
	Frequency   float64    `json:"frequency"`
	Reach       int        `json:"reach"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
