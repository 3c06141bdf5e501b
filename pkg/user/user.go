package user

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username is already taken")
var ErrUserDataInvalid = errors.New("invalid user data")

type User struct {
	Id           int
	Uid          string
	Username     string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}
