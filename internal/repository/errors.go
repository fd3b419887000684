package repository

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrOrphanageNotFound = errors.New("orphanage not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrDuplicate         = errors.New("duplicate record")
)
