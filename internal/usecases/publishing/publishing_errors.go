package publishing

import "errors"

// Erros específicos para o contexto de publicação
var (
	ErrCampaignNotFound    = errors.New("campanha não encontrada")
	ErrCampaignNotOwned    = errors.New("campanha não pertence ao usuário")
	ErrUserNotFound        = errors.New("usuário não encontrado")
	ErrUnsupportedPlatform = errors.New("plataforma sem adapter de publicação")
	ErrDatabaseOperation   = errors.New("erro ao realizar operação no banco de dados")
)
