package metadomain

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// IsAuthError verifica se o erro é de autenticação/autorização. Erros dessa
// classe são fatais e nunca devem ser retentados.
func (e *ErrorResponse) IsAuthError() bool {
	// O código 190 representa token inválido ou expirado nas respostas da API
	return e.Error.Code == 190 || e.Error.Type == "OAuthException"
}

// IsRateLimited verifica se o erro é de limite de requisições excedido
func (e *ErrorResponse) IsRateLimited() bool {
	// Códigos 4, 17 e 32 representam limites de chamadas da plataforma
	return e.Error.Code == 4 || e.Error.Code == 17 || e.Error.Code == 32
}
