package auth

import (
	"context"

	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
)

type Admins interface {
	GetByLogin(ctx context.Context, login string) (entity.User, error)
	GetById(ctx context.Context, id int) (entity.User, error)
}

type Employees interface {
	GetByUsername(ctx context.Context, username string) (entity.Employee, error)
	GetById(ctx context.Context, id int) (entity.Employee, error)
}

type Labours interface {
	GetByCode(ctx context.Context, code string) (entity.Labour, error)
	GetById(ctx context.Context, id int) (entity.Labour, error)
}

type Tokens interface {
	GenToken(claims auth.Claims) (string, string, error)
	ValidateRefreshToken(token string) (auth.Claims, error)
}
