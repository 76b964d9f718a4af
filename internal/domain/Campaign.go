package domain

import "time"

// CampaignStatus representa o status de uma campanha na plataforma de anúncios
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "ACTIVE"
	CampaignStatusPaused   CampaignStatus = "PAUSED"
	CampaignStatusDeleted  CampaignStatus = "DELETED"
	CampaignStatusArchived CampaignStatus = "ARCHIVED"
)

// Campaign representa uma campanha sincronizada da plataforma de anúncios.
// A campanha nunca é removida localmente, mesmo quando desaparece do remoto.
type Campaign struct {
	CampaignID      string         `json:"campaign_id"`
	Name            string         `json:"name"`
	Status          CampaignStatus `json:"status"`
	EffectiveStatus string         `json:"effective_status,omitempty"`
	Objective       string         `json:"objective,omitempty"`
	DailyBudget     *float64       `json:"daily_budget,omitempty"`
	LifetimeBudget  *float64       `json:"lifetime_budget,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
