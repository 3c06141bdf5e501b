package indicator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	List(ctx context.Context, name string) ([]Indicator, error)
	Get(ctx context.Context, id int) (Indicator, error)
	Create(ctx context.Context, indicator Indicator) (Indicator, error)
	Update(ctx context.Context, indicator Indicator) (Indicator, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const indicatorColumns = `id, indicator_name, value, year, month, data_source, created_date, last_updated_date`

func scanIndicator(row pgx.Row) (Indicator, error) {
	var indicator Indicator
	err := row.Scan(
		&indicator.Id,
		&indicator.Name,
		&indicator.Value,
		&indicator.Year,
		&indicator.Month,
		&indicator.DataSource,
		&indicator.CreatedDate,
		&indicator.LastUpdatedDate,
	)
	return indicator, err
}

// List returns the indicators ordered by name, year and month. An empty name returns all of them,
// otherwise the name is matched case-insensitively.
func (r *RepositoryImpl) List(ctx context.Context, name string) ([]Indicator, error) {
	query := `SELECT ` + indicatorColumns + ` FROM economic_indicator
				WHERE $1 = '' OR lower(indicator_name) = lower($1)
				ORDER BY indicator_name, year, month NULLS FIRST, id`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		err := fmt.Errorf("could not query economic indicators: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	indicators := make([]Indicator, 0)
	for rows.Next() {
		indicator, err := scanIndicator(rows)
		if err != nil {
			err := fmt.Errorf("error scanning economic indicator: %w", err)
			log.Error(err)
			return nil, err
		}
		indicators = append(indicators, indicator)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over economic indicators: %v", err)
		return nil, err
	}
	return indicators, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Indicator, error) {
	query := `SELECT ` + indicatorColumns + ` FROM economic_indicator WHERE id = $1`
	indicator, err := scanIndicator(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Indicator{}, ErrIndicatorNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get economic indicator: %w", err)
		log.Error(err)
		return Indicator{}, err
	}
	return indicator, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, indicator Indicator) (Indicator, error) {
	query := `INSERT INTO economic_indicator (indicator_name, value, year, month, data_source)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING ` + indicatorColumns
	created, err := scanIndicator(r.db.QueryRow(ctx, query,
		indicator.Name,
		indicator.Value,
		indicator.Year,
		indicator.Month,
		indicator.DataSource,
	))
	if err != nil {
		err := fmt.Errorf("could not create economic indicator: %w", err)
		log.Error(err)
		return Indicator{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, indicator Indicator) (Indicator, error) {
	query := `UPDATE economic_indicator SET
					indicator_name = $2,
					value = $3,
					year = $4,
					month = $5,
					data_source = $6,
					last_updated_date = now()
				WHERE id = $1
				RETURNING ` + indicatorColumns
	updated, err := scanIndicator(r.db.QueryRow(ctx, query,
		indicator.Id,
		indicator.Name,
		indicator.Value,
		indicator.Year,
		indicator.Month,
		indicator.DataSource,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Indicator{}, ErrIndicatorNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update economic indicator: %w", err)
		log.Error(err)
		return Indicator{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM economic_indicator WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete economic indicator: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}
