package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
)

const productsTable = "products"

// ProductRepository expõe a margem média dos produtos rastreados do usuário
type ProductRepository interface {
	AverageMarginPercent(userID int) (float64, bool, error)
}

type productRepository struct {
	conn *postgres.Connection
}

func NewProductRepository(conn *postgres.Connection) ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

// AverageMarginPercent retorna a margem média em percentual (0-100) e um
// booleano indicando se o usuário tem algum produto rastreado. Sem produtos,
// o chamador aplica a margem de fallback da configuração.
func (r *productRepository) AverageMarginPercent(userID int) (float64, bool, error) {
	marginSQL, marginArgs, err := squirrel.
		Select("COALESCE(AVG(margin_percent), 0)", "COUNT(*)").
		From(productsTable).
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var average float64
	var count int

	err = r.conn.QueryRow(marginSQL, marginArgs...).Scan(&average, &count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}

	return average, count > 0, nil
}
