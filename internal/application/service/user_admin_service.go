package service

import (
	"context"
	"strings"
	"time"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
	"github.com/imRyuukii/LoginPage/pkg/utils"
)

// UserAdminService manages accounts on behalf of an administrator.
// Every method takes the acting session and rejects non-admins.
type UserAdminService interface {
	// ListUsers returns one page of users matching query. The page number is
	// clamped to [1, total_pages].
	ListUsers(ctx context.Context, actor *models.Session, query *dto.ListUsersQuery) (*dto.UserListResponse, error)
	// UserActivity reports presence for ids, or for every user when ids is nil.
	UserActivity(ctx context.Context, actor *models.Session, ids []uint64) ([]*dto.UserActivityResponse, error)
	MakeAdmin(ctx context.Context, actor *models.Session, userID uint64) error
	DeleteUser(ctx context.Context, actor *models.Session, userID uint64) error
}

type userAdminServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	logger   logger.Logger
	now      func() time.Time
}

// NewUserAdminService creates a new instance of UserAdminService
func NewUserAdminService(users repository.UserRepository, sessions repository.SessionStore, log logger.Logger) UserAdminService {
	return &userAdminServiceImpl{
		users:    users,
		sessions: sessions,
		logger:   log.WithComponent("user_admin_service"),
		now:      time.Now,
	}
}

func requireAdmin(actor *models.Session) error {
	if actor == nil {
		return errors.ErrUnauthorized("Login required.")
	}
	if !actor.IsAdmin() {
		return errors.ErrForbidden("Administrator role required.")
	}
	return nil
}

func (s *userAdminServiceImpl) ListUsers(ctx context.Context, actor *models.Session, query *dto.ListUsersQuery) (*dto.UserListResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if query == nil {
		query = &dto.ListUsersQuery{}
	}
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	filter := repository.UserFilter{Query: strings.TrimSpace(query.Q)}
	if query.Role != "" && query.Role != "all" {
		filter.Role = constants.Role(query.Role)
	}

	perPage := query.PerPage
	switch {
	case perPage <= 0:
		perPage = constants.DefaultUsersPerPage
	case perPage > constants.MaxUsersPerPage:
		perPage = constants.MaxUsersPerPage
	}

	total, err := s.users.CountFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	users, err := s.users.ListFiltered(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u, now))
	}
	return &dto.UserListResponse{
		Users:      out,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func (s *userAdminServiceImpl) UserActivity(ctx context.Context, actor *models.Session, ids []uint64) ([]*dto.UserActivityResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var (
		users []*models.User
		err   error
	)
	if ids == nil {
		users, err = s.users.List(ctx)
	} else {
		users, err = s.users.FindByIDs(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*dto.UserActivityResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserActivityResponse(u, now))
	}
	return out, nil
}

// MakeAdmin promotes userID. Promoting an existing admin, including the
// actor, succeeds without a write.
func (s *userAdminServiceImpl) MakeAdmin(ctx context.Context, actor *models.Session, userID uint64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return nil
	}
	if err := s.users.UpdateRole(ctx, userID, constants.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info(ctx, "User promoted to admin",
		logger.Int64("user_id", int64(userID)),
		logger.Int64("actor_id", int64(actor.UserID)),
	)
	return nil
}

// DeleteUser removes userID and ends its sessions.
func (s *userAdminServiceImpl) DeleteUser(ctx context.Context, actor *models.Session, userID uint64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.UserID == userID {
		return errors.ErrInvalidRequest("You can't delete your own account.")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		s.logger.Warn(ctx, "Failed to revoke sessions of deleted user", logger.Int64("user_id", int64(userID)))
	}
	s.logger.Info(ctx, "User deleted",
		logger.Int64("user_id", int64(userID)),
		logger.Int64("actor_id", int64(actor.UserID)),
	)
	return nil
}
