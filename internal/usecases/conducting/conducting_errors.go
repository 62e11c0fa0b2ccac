package conducting

import "errors"

// Erros específicos para o contexto do conductor
var (
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
	ErrEmptyPlan         = errors.New("gateway retornou plano sem decisões nem resumo")
)
