package metadomain

import "encoding/json"

// Campaign representa uma campanha como retornada pela listagem da Graph API
type Campaign struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	EffectiveStatus string `json:"effective_status"`
	Objective       string `json:"objective"`
	DailyBudget     string `json:"daily_budget"`    // Em centavos, como string
	LifetimeBudget  string `json:"lifetime_budget"` // Em centavos, como string
}

// AdSet representa um conjunto de anúncios como retornado pela Graph API
type AdSet struct {
	ID               string          `json:"id"`
	CampaignID       string          `json:"campaign_id"`
	Name             string          `json:"name"`
	Status           string          `json:"status"`
	DailyBudget      string          `json:"daily_budget"`
	LifetimeBudget   string          `json:"lifetime_budget"`
	Targeting        json.RawMessage `json:"targeting"`
	OptimizationGoal string          `json:"optimization_goal"`
	BillingEvent     string          `json:"billing_event"`
	BidStrategy      string          `json:"bid_strategy"`
}

// Creative é o bloco de criativo embutido na listagem de anúncios
type Creative struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnail_url"`
	ImageURL     string `json:"image_url"`
	Body         string `json:"body"`
	Title        string `json:"title"`
}

// Ad representa um anúncio como retornado pela Graph API
type Ad struct {
	ID       string    `json:"id"`
	AdSetID  string    `json:"adset_id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Creative *Creative `json:"creative"`
}

// Cursors são os cursores opacos de paginação da Graph API
type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Paging é o bloco de paginação de cada página de resposta. Next, quando
// presente, é a URL absoluta da próxima página e já carrega o token de
// continuação: deve ser seguida literalmente, sem reconstruir parâmetros.
type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}
