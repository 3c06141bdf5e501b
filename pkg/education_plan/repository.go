package education_plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwise/finwise/pkg/family"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository scopes every query to the plans of the given user through the owning family profile.
type Repository interface {
	CreatePlan(ctx context.Context, userId int, plan EducationPlan) (EducationPlan, error)
	GetPlan(ctx context.Context, userId int, planId int) (EducationPlan, error)
	ListPlansByChild(ctx context.Context, userId int, childId int) ([]EducationPlan, error)
	UpdatePlan(ctx context.Context, userId int, plan EducationPlan) (EducationPlan, error)
	DeletePlan(ctx context.Context, userId int, planId int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const planColumns = `ep.id, ep.family_profile_id, ep.child_id, ep.education_level, ep.estimated_total_cost,
				ep.estimated_start_year, ep.inflation_rate, ep.inflation_adjusted_cost, ep.created_at, ep.updated_at`

func scanPlan(row pgx.Row) (EducationPlan, error) {
	var plan EducationPlan
	err := row.Scan(
		&plan.Id,
		&plan.FamilyProfileId,
		&plan.ChildId,
		&plan.EducationLevel,
		&plan.EstimatedTotalCost,
		&plan.EstimatedStartYear,
		&plan.InflationRate,
		&plan.InflationAdjustedCost,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	return plan, err
}

func (r *RepositoryImpl) CreatePlan(ctx context.Context, userId int, plan EducationPlan) (EducationPlan, error) {
	query := `INSERT INTO education_plan AS ep (
					family_profile_id,
					child_id,
					education_level,
					estimated_total_cost,
					estimated_start_year,
					inflation_rate,
					inflation_adjusted_cost
				)
				SELECT fp.id, c.id, $4::text, $5::numeric, $6::integer, $7::numeric, $8::numeric
				FROM family_profile fp
				JOIN child c ON c.family_profile_id = fp.id
				WHERE fp.user_id = $1 AND fp.id = $2 AND c.id = $3
				RETURNING ` + planColumns
	created, err := scanPlan(r.db.QueryRow(ctx, query,
		userId,
		plan.FamilyProfileId,
		plan.ChildId,
		plan.EducationLevel,
		plan.EstimatedTotalCost,
		plan.EstimatedStartYear,
		plan.InflationRate,
		plan.InflationAdjustedCost,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("no family profile %d with child %d for user %d", plan.FamilyProfileId, plan.ChildId, userId)
		return EducationPlan{}, family.ErrChildNotFound
	} else if err != nil {
		err := fmt.Errorf("could not create education plan: %w", err)
		log.Error(err)
		return EducationPlan{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) GetPlan(ctx context.Context, userId int, planId int) (EducationPlan, error) {
	query := `SELECT ` + planColumns + ` FROM education_plan ep
				JOIN family_profile fp ON fp.id = ep.family_profile_id
				WHERE fp.user_id = $1 AND ep.id = $2`
	plan, err := scanPlan(r.db.QueryRow(ctx, query, userId, planId))
	if errors.Is(err, pgx.ErrNoRows) {
		return EducationPlan{}, ErrPlanNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get education plan: %w", err)
		log.Error(err)
		return EducationPlan{}, err
	}
	return plan, nil
}

func (r *RepositoryImpl) ListPlansByChild(ctx context.Context, userId int, childId int) ([]EducationPlan, error) {
	query := `SELECT ` + planColumns + ` FROM education_plan ep
				JOIN family_profile fp ON fp.id = ep.family_profile_id
				WHERE fp.user_id = $1 AND ep.child_id = $2 ORDER BY ep.id`
	rows, err := r.db.Query(ctx, query, userId, childId)
	if err != nil {
		err := fmt.Errorf("could not query education plans: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	plans := make([]EducationPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			err := fmt.Errorf("error scanning education plan: %w", err)
			log.Error(err)
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over education plans: %v", err)
		return nil, err
	}
	return plans, nil
}

func (r *RepositoryImpl) UpdatePlan(ctx context.Context, userId int, plan EducationPlan) (EducationPlan, error) {
	query := `UPDATE education_plan ep SET
					child_id = $3,
					education_level = $4,
					estimated_total_cost = $5,
					estimated_start_year = $6,
					inflation_rate = $7,
					inflation_adjusted_cost = $8,
					updated_at = now()
				FROM family_profile fp
				WHERE fp.id = ep.family_profile_id AND fp.user_id = $1 AND ep.id = $2
				RETURNING ` + planColumns
	updated, err := scanPlan(r.db.QueryRow(ctx, query,
		userId,
		plan.Id,
		plan.ChildId,
		plan.EducationLevel,
		plan.EstimatedTotalCost,
		plan.EstimatedStartYear,
		plan.InflationRate,
		plan.InflationAdjustedCost,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return EducationPlan{}, ErrPlanNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update education plan: %w", err)
		log.Error(err)
		return EducationPlan{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) DeletePlan(ctx context.Context, userId int, planId int) (bool, error) {
	query := `DELETE FROM education_plan ep USING family_profile fp
				WHERE fp.id = ep.family_profile_id AND fp.user_id = $1 AND ep.id = $2`
	result, err := r.db.Exec(ctx, query, userId, planId)
	if err != nil {
		err := fmt.Errorf("could not delete education plan: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}
