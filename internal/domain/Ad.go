package domain

import "time"

// Ad representa um anúncio individual pertencente a um conjunto de anúncios.
// ThumbnailURL pode ser nula: a ausência apenas desabilita a análise de
// criativo, que é uma preocupação externa a este núcleo.
type Ad struct {
	AdID          string         `json:"ad_id"`
	AdSetID       string         `json:"adset_id"`
	Name          string         `json:"name"`
	Status        CampaignStatus `json:"status"`
	CreativeID    *string        `json:"creative_id,omitempty"`
	ThumbnailURL  *string        `json:"thumbnail_url,omitempty"`
	ImageURL      *string        `json:"image_url,omitempty"`
	CreativeBody  *string        `json:"creative_body,omitempty"`
	CreativeTitle *string        `json:"creative_title,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
