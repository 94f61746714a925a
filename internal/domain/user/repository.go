package user

import "context"

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (Admin, error)
	Create(ctx context.Context, admin Admin) (Admin, error)
	Count(ctx context.Context) (int64, error)
}
