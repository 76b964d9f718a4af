package metadomain

import (
	"github.com/vfg2006/ads-sync-engine/pkg/utils"
)

// Action é um par tipo/valor da lista de ações de um insight
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// DailyInsight é uma linha diária de métricas como retornada pelo endpoint
// de insights. Os campos numéricos chegam como strings e precisam de coerção
// segura antes de qualquer cálculo.
type DailyInsight struct {
	DateStart    string   `json:"date_start"`
	DateStop     string   `json:"date_stop"`
	Spend        string   `json:"spend"`
	Impressions  string   `json:"impressions"`
	Clicks       string   `json:"clicks"`
	CPC          string   `json:"cpc"`
	CTR          string   `json:"ctr"`
	CPM          string   `json:"cpm"`
	Frequency    string   `json:"frequency"`
	Reach        string   `json:"reach"`
	Actions      []Action `json:"actions"`
	ActionValues []Action `json:"action_values"`
}

// Ordem de prioridade dos tipos de ação que contam como conversão
var conversionActionPriority = []string{
	"offsite_conversion.fb_pixel_purchase",
	"purchase",
	"omni_purchase",
	"offsite_conversion.fb_pixel_complete_registration",
	"lead",
}

// Ordem de prioridade dos tipos de ação que carregam valor de receita
var revenueActionPriority = []string{
	"offsite_conversion.fb_pixel_purchase",
	"purchase",
	"omni_purchase",
}

// ExtractConversions extrai a contagem de conversões da lista de ações
// seguindo a ordem de prioridade. A ausência de qualquer tipo mapeado
// resulta em zero conversões, não em erro.
func (i *DailyInsight) ExtractConversions() int {
	return extractByPriority(i.Actions, conversionActionPriority)
}

// ExtractRevenue extrai a receita reportada da lista de valores de ação
// seguindo a ordem de prioridade de ações de compra
func (i *DailyInsight) ExtractRevenue() float64 {
	if len(i.ActionValues) == 0 {
		return 0
	}

	for _, actionType := range revenueActionPriority {
		for _, av := range i.ActionValues {
			if av.ActionType == actionType {
				return utils.SafeFloat(av.Value, 0)
			}
		}
	}

	return 0
}

func extractByPriority(actions []Action, priority []string) int {
	if len(actions) == 0 {
		return 0
	}

	for _, actionType := range priority {
		for _, action := range actions {
			if action.ActionType == actionType {
				return utils.SafeInt(action.Value, 0)
			}
		}
	}

	return 0
}
