package repository

import (
	"context"
	"time"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// UserFilter narrows a user listing. Query matches name, username or email
// case-insensitively; an empty Role matches every role.
type UserFilter struct {
	Query string
	Role  constants.Role
}

// UserRepository persists accounts.
// Lookups return errors.ErrNotFound when no row matches; Create returns
// errors.ErrConflict when the username or email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*models.User, error)
	// ListFiltered returns one page of the users matching filter, in List order.
	// A limit <= 0 returns every match.
	ListFiltered(ctx context.Context, filter UserFilter, limit, offset int) ([]*models.User, error)
	CountFiltered(ctx context.Context, filter UserFilter) (int64, error)
	// FindByIDs returns the users among ids that exist, ordered by id.
	FindByIDs(ctx context.Context, ids []uint64) ([]*models.User, error)
	TouchLastActive(ctx context.Context, id uint64, at time.Time) error
	UpdateRole(ctx context.Context, id uint64, role constants.Role) error
	Delete(ctx context.Context, id uint64) error
}

// SessionStore keeps login sessions outside the process.
type SessionStore interface {
	// Create stores the session under a freshly generated id and returns it.
	Create(ctx context.Context, session *models.Session) (string, error)
	// Get returns errors.ErrUnauthorized when the id is unknown or expired.
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every session of a user, e.g. after account deletion.
	DeleteByUser(ctx context.Context, userID uint64) error
}
