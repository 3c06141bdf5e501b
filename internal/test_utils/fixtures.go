package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The fixtures insert rows with plain SQL so repository tests of any package can use them
// without importing the packages owning the tables.

func InsertUser(t *testing.T, db *pgxpool.Pool, username string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (uid, username, display_name, password_hash) VALUES ($1, $2, $3, $4) RETURNING id`,
		uuid.NewString(), username, username, "not-a-real-hash",
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert user %s: %v", username, err)
	}
	return id
}

func InsertFamilyProfile(t *testing.T, db *pgxpool.Pool, userId int, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO family_profile (user_id, name) VALUES ($1, $2) RETURNING id`, userId, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert family profile %s: %v", name, err)
	}
	return id
}

func InsertChild(t *testing.T, db *pgxpool.Pool, familyProfileId int, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO child (family_profile_id, name) VALUES ($1, $2) RETURNING id`, familyProfileId, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert child %s: %v", name, err)
	}
	return id
}
