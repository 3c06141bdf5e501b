package family

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository methods take the id of the owning user; rows of other users behave as missing.
type Repository interface {
	CreateProfile(ctx context.Context, userId int, profile FamilyProfile) (FamilyProfile, error)
	GetProfileByUser(ctx context.Context, userId int) (FamilyProfile, error)
	GetProfile(ctx context.Context, userId int, profileId int) (FamilyProfile, error)
	UpdateProfile(ctx context.Context, userId int, profile FamilyProfile) (FamilyProfile, error)
	ListChildren(ctx context.Context, userId int, profileId int) ([]Child, error)
	CreateChild(ctx context.Context, userId int, child Child) (Child, error)
	GetChild(ctx context.Context, userId int, childId int) (Child, error)
	UpdateChild(ctx context.Context, userId int, child Child) (Child, error)
	DeleteChild(ctx context.Context, userId int, childId int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const profileColumns = `id, user_id, name, created_at, updated_at`

func scanProfile(row pgx.Row) (FamilyProfile, error) {
	var profile FamilyProfile
	err := row.Scan(&profile.Id, &profile.UserId, &profile.Name, &profile.CreatedAt, &profile.UpdatedAt)
	return profile, err
}

func (r *RepositoryImpl) CreateProfile(ctx context.Context, userId int, profile FamilyProfile) (FamilyProfile, error) {
	query := `INSERT INTO family_profile (user_id, name) VALUES ($1, $2)
				ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
				RETURNING ` + profileColumns
	created, err := scanProfile(r.db.QueryRow(ctx, query, userId, profile.Name))
	if err != nil {
		err := fmt.Errorf("could not create family profile: %w", err)
		log.Error(err)
		return FamilyProfile{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) GetProfileByUser(ctx context.Context, userId int) (FamilyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM family_profile WHERE user_id = $1`
	return r.getProfile(ctx, query, userId)
}

func (r *RepositoryImpl) GetProfile(ctx context.Context, userId int, profileId int) (FamilyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM family_profile WHERE user_id = $1 AND id = $2`
	return r.getProfile(ctx, query, userId, profileId)
}

func (r *RepositoryImpl) getProfile(ctx context.Context, query string, args ...any) (FamilyProfile, error) {
	profile, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return FamilyProfile{}, ErrFamilyProfileNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get family profile: %w", err)
		log.Error(err)
		return FamilyProfile{}, err
	}
	return profile, nil
}

func (r *RepositoryImpl) UpdateProfile(ctx context.Context, userId int, profile FamilyProfile) (FamilyProfile, error) {
	query := `UPDATE family_profile SET name = $1, updated_at = now() WHERE user_id = $2 AND id = $3
				RETURNING ` + profileColumns
	updated, err := scanProfile(r.db.QueryRow(ctx, query, profile.Name, userId, profile.Id))
	if errors.Is(err, pgx.ErrNoRows) {
		return FamilyProfile{}, ErrFamilyProfileNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update family profile: %w", err)
		log.Error(err)
		return FamilyProfile{}, err
	}
	return updated, nil
}

const childColumns = `c.id, c.family_profile_id, c.name, c.birth_date, c.created_at`

func scanChild(row pgx.Row) (Child, error) {
	var child Child
	err := row.Scan(&child.Id, &child.FamilyProfileId, &child.Name, &child.BirthDate, &child.CreatedAt)
	return child, err
}

func (r *RepositoryImpl) ListChildren(ctx context.Context, userId int, profileId int) ([]Child, error) {
	query := `SELECT ` + childColumns + ` FROM child c
				JOIN family_profile fp ON fp.id = c.family_profile_id
				WHERE fp.user_id = $1 AND fp.id = $2 ORDER BY c.id`
	rows, err := r.db.Query(ctx, query, userId, profileId)
	if err != nil {
		err := fmt.Errorf("could not query children: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	children := make([]Child, 0)
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			err := fmt.Errorf("error scanning child: %w", err)
			log.Error(err)
			return nil, err
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over children: %v", err)
		return nil, err
	}
	return children, nil
}

func (r *RepositoryImpl) CreateChild(ctx context.Context, userId int, child Child) (Child, error) {
	query := `INSERT INTO child (family_profile_id, name, birth_date)
				SELECT fp.id, $3::text, $4::date FROM family_profile fp WHERE fp.user_id = $1 AND fp.id = $2
				RETURNING id, family_profile_id, name, birth_date, created_at`
	created, err := scanChild(r.db.QueryRow(ctx, query, userId, child.FamilyProfileId, child.Name, child.BirthDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return Child{}, ErrFamilyProfileNotFound
	} else if err != nil {
		err := fmt.Errorf("could not create child: %w", err)
		log.Error(err)
		return Child{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) GetChild(ctx context.Context, userId int, childId int) (Child, error) {
	query := `SELECT ` + childColumns + ` FROM child c
				JOIN family_profile fp ON fp.id = c.family_profile_id
				WHERE fp.user_id = $1 AND c.id = $2`
	child, err := scanChild(r.db.QueryRow(ctx, query, userId, childId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Child{}, ErrChildNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get child: %w", err)
		log.Error(err)
		return Child{}, err
	}
	return child, nil
}

func (r *RepositoryImpl) UpdateChild(ctx context.Context, userId int, child Child) (Child, error) {
	query := `UPDATE child c SET name = $3, birth_date = $4
				FROM family_profile fp
				WHERE fp.id = c.family_profile_id AND fp.user_id = $1 AND c.id = $2
				RETURNING ` + childColumns
	updated, err := scanChild(r.db.QueryRow(ctx, query, userId, child.Id, child.Name, child.BirthDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return Child{}, ErrChildNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update child: %w", err)
		log.Error(err)
		return Child{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteChild(ctx context.Context, userId int, childId int) (bool, error) {
	query := `DELETE FROM child c USING family_profile fp
				WHERE fp.id = c.family_profile_id AND fp.user_id = $1 AND c.id = $2`
	result, err := r.db.Exec(ctx, query, userId, childId)
	if err != nil {
		err := fmt.Errorf("could not delete child: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}
