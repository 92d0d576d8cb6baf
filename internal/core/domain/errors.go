package domain

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrTagNotFound  = errors.New("tag not found")

	// ErrSlugTaken signals a post slug uniqueness violation.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrUserExists signals a username or email uniqueness violation.
	ErrUserExists = errors.New("user already exists")
	// ErrTagExists signals a tag name uniqueness violation.
	ErrTagExists = errors.New("tag already exists")
	// ErrReferenced signals a restrict-policy violation: the entity is still
	// referenced by at least one post and cannot be deleted.
	ErrReferenced = errors.New("entity is still referenced by posts")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")

	ErrInvalidInput = errors.New("invalid input")
)
