package family

import (
	"errors"
	"time"
)

var ErrFamilyProfileNotFound = errors.New("family profile not found")
var ErrChildNotFound = errors.New("child not found")
var ErrInvalidChild = errors.New("invalid child")
var ErrInvalidFamilyProfile = errors.New("invalid family profile")

// FamilyProfile is the household of one user. Children and education plans hang off it.
type FamilyProfile struct {
	Id        int
	UserId    int
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Child struct {
	Id              int
	FamilyProfileId int
	Name            string
	BirthDate       *time.Time
	CreatedAt       time.Time
}
