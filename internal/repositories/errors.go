package repositories

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrSameUser     = errors.New("pair update needs two distinct users")
	ErrPostNotFound = errors.New("post not found")
)
