package domain

import (
	"encoding/json"
	"time"
)

// AdSet representa um conjunto de anúncios pertencente a uma campanha.
// Targeting é mantido como JSON opaco: esta camada não interpreta o conteúdo.
type AdSet struct {
	AdSetID          string          `json:"adset_id"`
	CampaignID       string          `json:"campaign_id"`
	Name             string          `json:"name"`
	Status           CampaignStatus  `json:"status"`
	Budget           *float64        `json:"budget,omitempty"`
	Targeting        json.RawMessage `json:"targeting,omitempty"`
	OptimizationGoal string          `json:"optimization_goal,omitempty"`
	BillingEvent     string          `json:"billing_event,omitempty"`
	BidStrategy      string          `json:"bid_strategy,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
