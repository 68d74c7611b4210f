package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

func newUserRepo(t *testing.T) repository.UserRepository {
	return NewUserRepository(newTestDB(t), sqliteDialect{}, logger.NewNoopLogger())
}

func mustUser(t *testing.T, username, email string) *models.User {
	user, err := models.NewUser(username, email, "Test "+username, "secret1")
	require.NoError(t, err)
	return user
}

func TestUserRepo_CreateAndFind(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	alice := mustUser(t, "alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotZero(t, alice.ID)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)
	assert.True(t, byName.CheckPassword("secret1"))

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.True(t, errors.IsNotFound(err))
}

func TestUserRepo_UniqueViolationIsConflict(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustUser(t, "alice", "alice@example.com")))

	err := repo.Create(ctx, mustUser(t, "alice", "other@example.com"))
	assert.True(t, errors.IsConflict(err))

	err = repo.Create(ctx, mustUser(t, "alice2", "alice@example.com"))
	assert.True(t, errors.IsConflict(err))
}

func TestUserRepo_UpdateAndDelete(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	alice := mustUser(t, "alice", "alice@example.com")
	bob := mustUser(t, "bob", "bob@example.com")
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	require.NoError(t, repo.UpdateRole(ctx, bob.ID, constants.RoleAdmin))
	require.NoError(t, repo.TouchLastActive(ctx, alice.ID, time.Now()))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.NotNil(t, users[0].LastActive)
	assert.True(t, users[1].IsAdmin())

	require.NoError(t, repo.Delete(ctx, alice.ID))
	assert.True(t, errors.IsNotFound(repo.Delete(ctx, alice.ID)))
	assert.True(t, errors.IsNotFound(repo.UpdateRole(ctx, alice.ID, constants.RoleAdmin)))
}

func TestUserRepo_ListFiltered(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	ids := map[string]uint64{}
	for _, name := range []string{"alice", "bob", "carol", "malik"} {
		user := mustUser(t, name, name+"@example.com")
		require.NoError(t, repo.Create(ctx, user))
		ids[name] = user.ID
	}
	require.NoError(t, repo.UpdateRole(ctx, ids["bob"], constants.RoleAdmin))

	usernames := func(users []*models.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.Username)
		}
		return out
	}

	tests := []struct {
		name   string
		filter repository.UserFilter
		want   []string
	}{
		{"Everyone", repository.UserFilter{}, []string{"alice", "bob", "carol", "malik"}},
		{"SearchIsCaseInsensitive", repository.UserFilter{Query: "ALI"}, []string{"alice", "malik"}},
		{"SearchMatchesEmail", repository.UserFilter{Query: "carol@"}, []string{"carol"}},
		{"SearchMatchesName", repository.UserFilter{Query: "test b"}, []string{"bob"}},
		{"RoleAdmin", repository.UserFilter{Role: constants.RoleAdmin}, []string{"bob"}},
		{"RoleUser", repository.UserFilter{Role: constants.RoleUser}, []string{"alice", "carol", "malik"}},
		{"SearchAndRole", repository.UserFilter{Query: "ali", Role: constants.RoleAdmin}, []string{}},
		{"WildcardsAreLiteral", repository.UserFilter{Query: "%"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.ListFiltered(ctx, tt.filter, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, usernames(users))

			total, err := repo.CountFiltered(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}

	t.Run("Pages", func(t *testing.T) {
		page, err := repo.ListFiltered(ctx, repository.UserFilter{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"carol", "malik"}, usernames(page))

		page, err = repo.ListFiltered(ctx, repository.UserFilter{}, 2, 4)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("FindByIDs", func(t *testing.T) {
		users, err := repo.FindByIDs(ctx, []uint64{ids["malik"], ids["alice"], 9999})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "malik"}, usernames(users))

		users, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}
