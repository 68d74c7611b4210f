package postgres

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

// UserRepoImpl implements UserRepository using gorm.
type UserRepoImpl struct {
	db      *gorm.DB
	dialect Dialect
	logger  logger.Logger
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *gorm.DB, dialect Dialect, log logger.Logger) repository.UserRepository {
	return &UserRepoImpl{
		db:      db,
		dialect: dialect,
		logger:  log.WithComponent("user_repository"),
	}
}

// Create inserts a new account. Username and email are unique.
func (r *UserRepoImpl) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if r.dialect.IsUniqueViolation(err) {
			r.logger.Debug(ctx, "Duplicate user rejected", logger.String("username", user.Username))
			return errors.ErrConflict("Username or email already exists.").WithCause(err)
		}
		r.logger.Error(ctx, "Failed to create user", err,
			logger.String("username", user.Username),
		)
		return errors.ErrInternal("failed to create user").WithCause(err)
	}

	r.logger.Info(ctx, "User created successfully",
		logger.Int64("user_id", int64(user.ID)),
		logger.String("username", user.Username),
		logger.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

func (r *UserRepoImpl) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound("user not found")
		}
		r.logger.Error(ctx, "Failed to retrieve user", err, logger.String("query", query))
		return nil, errors.ErrInternal("failed to retrieve user").WithCause(err)
	}
	return &user, nil
}

// FindByID retrieves a user by primary key.
func (r *UserRepoImpl) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername retrieves a user by login name.
func (r *UserRepoImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail retrieves a user by email address.
func (r *UserRepoImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// List returns every user, oldest first.
func (r *UserRepoImpl) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&users).Error; err != nil {
		r.logger.Error(ctx, "Failed to list users", err)
		return nil, errors.ErrInternal("failed to list users").WithCause(err)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *UserRepoImpl) filtered(ctx context.Context, filter repository.UserFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if term := strings.TrimSpace(filter.Query); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(
			"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	return query
}

// ListFiltered returns one page of matching users, oldest first.
func (r *UserRepoImpl) ListFiltered(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*models.User, error) {
	query := r.filtered(ctx, filter).Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var users []*models.User
	if err := query.Find(&users).Error; err != nil {
		r.logger.Error(ctx, "Failed to list users", err,
			logger.String("role", string(filter.Role)),
			logger.Int("limit", limit),
			logger.Int("offset", offset),
		)
		return nil, errors.ErrInternal("failed to list users").WithCause(err)
	}
	return users, nil
}

// CountFiltered counts the users matching filter.
func (r *UserRepoImpl) CountFiltered(ctx context.Context, filter repository.UserFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count users", err, logger.String("role", string(filter.Role)))
		return 0, errors.ErrInternal("failed to count users").WithCause(err)
	}
	return total, nil
}

// FindByIDs retrieves the existing users among ids.
func (r *UserRepoImpl) FindByIDs(ctx context.Context, ids []uint64) ([]*models.User, error) {
	users := []*models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		r.logger.Error(ctx, "Failed to retrieve users by id", err, logger.Int("count", len(ids)))
		return nil, errors.ErrInternal("failed to retrieve users").WithCause(err)
	}
	return users, nil
}

// TouchLastActive records activity for a user.
func (r *UserRepoImpl) TouchLastActive(ctx context.Context, id uint64, at time.Time) error {
	return r.updateColumn(ctx, id, "last_active", at.UTC())
}

// UpdateRole changes the role of a user.
func (r *UserRepoImpl) UpdateRole(ctx context.Context, id uint64, role constants.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *UserRepoImpl) updateColumn(ctx context.Context, id uint64, column string, value interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update user", result.Error,
			logger.Int64("user_id", int64(id)),
			logger.String("column", column),
		)
		return errors.ErrInternal("failed to update user").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound("user not found")
	}
	return nil
}

// Delete removes a user.
func (r *UserRepoImpl) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to delete user", result.Error, logger.Int64("user_id", int64(id)))
		return errors.ErrInternal("failed to delete user").WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound("user not found")
	}
	r.logger.Info(ctx, "User deleted", logger.Int64("user_id", int64(id)))
	return nil
}
