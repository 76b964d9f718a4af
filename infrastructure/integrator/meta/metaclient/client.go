package metaclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-sync-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-sync-engine/internal/config"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

// Client expõe as operações de leitura da API de relatórios do Meta
type Client interface {
	ListCampaigns(accountID string) ([]metadomain.Campaign, error)
	ListAdSets(accountID string) ([]metadomain.AdSet, error)
	ListAds(accountID string) ([]metadomain.Ad, error)
	GetDailyInsights(entityID string, level string, filters *domain.InsightFilters) ([]metadomain.DailyInsight, error)
}

// MetaClient implementa o acesso à Graph API com paginação por cursor e
// retentativas com backoff exponencial para falhas transitórias
type MetaClient struct {
	cfg        *config.Config
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Meta.RequestTimeoutSeconds) * time.Second,
		},
		maxRetries: cfg.Meta.MaxRetries,
		baseDelay:  time.Duration(cfg.Meta.RetryBaseDelayMS) * time.Millisecond,
		sleep:      time.Sleep,
	}
}

// RequestError carrega o status HTTP e o envelope de erro da API para
// permitir a classificação entre falhas transitórias e fatais
type RequestError struct {
	StatusCode int
	APIError   *metadomain.ErrorResponse
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("falha de rede na requisição: %v", e.Err)
	}

	if e.APIError != nil && e.APIError.Error.Message != "" {
		return fmt.Sprintf("erro da API (status %d): %s", e.StatusCode, e.APIError.Error.Message)
	}

	return fmt.Sprintf("erro da API (status %d)", e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Retryable indica se a falha é transitória: timeouts e falhas de rede,
// 5xx e 429 são retentáveis; qualquer outro status (auth, validação) é
// fatal e propaga imediatamente.
func (e *RequestError) Retryable() bool {
	if e.StatusCode == 0 {
		return true
	}

	if e.APIError != nil && e.APIError.IsAuthError() {
		return false
	}

	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return true
	}

	if e.APIError != nil && e.APIError.IsRateLimited() {
		return true
	}

	return false
}

// pageEnvelope é o envelope padrão de uma página da Graph API
type pageEnvelope struct {
	Data   []json.RawMessage `json:"data"`
	Paging metadomain.Paging `json:"paging"`
}

// fetchPage busca uma única página e retorna os itens e o ponteiro para a
// próxima página (vazio quando não há mais páginas)
func (c *MetaClient) fetchPage(pageURL string) ([]json.RawMessage, string, error) {
	body, err := c.fetchWithRetry(pageURL)
	if err != nil {
		return nil, "", err
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, "", errors.Wrap(err, "erro ao decodificar página da API")
	}

	return envelope.Data, envelope.Paging.Next, nil
}

// fetchAll percorre todas as páginas a partir da URL inicial, concatenando
// os itens. O ponteiro next retornado pelo servidor é seguido literalmente,
// pois já carrega o token opaco de continuação.
func (c *MetaClient) fetchAll(baseURL string, params url.Values) ([]json.RawMessage, error) {
	if c.cfg.Meta.AccessToken == "" {
		return nil, errors.New("credenciais do Meta ausentes: META_ACCESS_TOKEN não configurado")
	}

	params.Set("access_token", c.cfg.Meta.AccessToken)
	pageURL := baseURL + "?" + params.Encode()

	items := make([]json.RawMessage, 0)

	for pageURL != "" {
		pageItems, next, err := c.fetchPage(pageURL)
		if err != nil {
			return nil, err
		}

		items = append(items, pageItems...)
		pageURL = next
	}

	return items, nil
}

// fetchWithRetry executa a requisição aplicando a política de retentativa:
// falhas transitórias são retentadas até o máximo configurado, dormindo
// baseDelay * 2^tentativa antes de cada retentativa; falhas fatais propagam
// imediatamente.
func (c *MetaClient) fetchWithRetry(pageURL string) ([]byte, error) {
	body, err := c.doRequest(pageURL)
	if err == nil {
		return body, nil
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) || !reqErr.Retryable() {
			return nil, err
		}

		delay := c.baseDelay * (1 << attempt)
		logrus.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"error":   err.Error(),
		}).Warn("Falha transitória na API do Meta, aguardando para retentar")

		c.sleep(delay)

		body, err = c.doRequest(pageURL)
		if err == nil {
			return body, nil
		}
	}

	return nil, errors.Wrap(err, "máximo de retentativas excedido")
}

// doRequest executa uma única requisição GET e classifica o resultado
func (c *MetaClient) doRequest(pageURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		reqErr := &RequestError{StatusCode: resp.StatusCode}

		var apiError metadomain.ErrorResponse
		if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error.Message != "" {
			reqErr.APIError = &apiError
		}

		return nil, reqErr
	}

	return body, nil
}
