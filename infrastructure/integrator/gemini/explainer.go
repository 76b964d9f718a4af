package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
	"google.golang.org/api/option"
)

// AnomalyExplainer gera explicações em linguagem natural para anomalias
type AnomalyExplainer interface {
	ExplainAnomaly(ctx context.Context, anomaly *domain.Anomaly) (string, error)
}

// Explainer implementa AnomalyExplainer usando o Gemini. O serviço é tratado
// como lento e não confiável: qualquer falha degrada para uma explicação
// vazia, sem interromper a detecção.
type Explainer struct {
	cfg *config.Config
}

func NewExplainer(cfg *config.Config) AnomalyExplainer {
	return &Explainer{cfg: cfg}
}

// ExplainAnomaly produz um texto curto descrevendo a provável causa do
// desvio observado
func (e *Explainer) ExplainAnomaly(ctx context.Context, anomaly *domain.Anomaly) (string, error) {
	if e.cfg.Gemini.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY não configurada")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.cfg.Gemini.APIKey))
	if err != nil {
		return "", errors.Wrap(err, "erro ao criar cliente do Gemini")
	}
	defer client.Close()

	model := client.GenerativeModel(e.cfg.Gemini.Model)

	prompt := fmt.Sprintf(
		"Você é um analista de tráfego pago. A métrica %q da entidade %s %q "+
			"tinha valor esperado %.2f com base no histórico recente, mas o valor "+
			"observado foi %.2f (desvio de %.1f%%). Em no máximo duas frases, "+
			"explique as causas mais prováveis desse desvio e o que verificar primeiro.",
		anomaly.MetricName,
		anomaly.EntityType,
		anomaly.EntityID,
		anomaly.ExpectedValue,
		anomaly.ActualValue,
		anomaly.DeviationPercent,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.Wrap(err, "erro ao gerar explicação")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("resposta vazia do Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("resposta do Gemini em formato inesperado")
	}

	logrus.WithFields(logrus.Fields{
		"entity_id": anomaly.EntityID,
		"metric":    anomaly.MetricName,
	}).Debug("Explicação de anomalia gerada com sucesso")

	return string(text), nil
}
