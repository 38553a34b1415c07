package domain

import (
	"context"
	"errors"
)

type CreateUserRequest struct {
	Name      string
	Email     string
	Role      string
	AvatarURL string
}

type GetUserRequest struct {
	ID string
}

type ListUsersRequest struct {
	Role string
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	GetByID(ctx context.Context, req GetUserRequest) (User, error)
	List(ctx context.Context, req ListUsersRequest) (ListUsersResponse, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidRole  = errors.New("invalid_role")
	ErrInvalidID    = errors.New("invalid_id")
	ErrEmailTaken   = errors.New("email_taken")
	ErrNotFound     = errors.New("not_found")
)
