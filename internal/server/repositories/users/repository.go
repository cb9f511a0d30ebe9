package users

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Repository is the credential store.
//
// Create returns common.ErrorAlreadyExists when the username is taken, even
// when the conflict is detected only by the unique index. FindByUsername
// returns common.ErrorNotFound for unknown users.
type Repository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
