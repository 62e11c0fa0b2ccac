package costing

import "errors"

// Erros específicos para o contexto de custos
var (
	ErrUserNotFound      = errors.New("usuário não encontrado")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)
