package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/repository/sqlite"
	"task_manager/internal/utils"
)

const testPassword = "Secreta123"

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := sqlite.Open(context.Background(), "file:svc_"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTestJWT() *utils.JWTUtil {
	return utils.NewJWTUtil("test-secret", 1)
}

func accountRequest(identification string) model.CreateAccountRequest {
	return model.CreateAccountRequest{
		Identification: identification,
		FirstName:      "Ana",
		LastName:       "Pérez",
		Password:       testPassword,
	}
}

func strPtr(s string) *string { return &s }

func registerUser(t *testing.T, store repository.Store, identification string) *model.Account {
	t.Helper()
	user, err := NewAuthService(store, newTestJWT()).Register(context.Background(), accountRequest(identification))
	require.NoError(t, err)
	return user
}

// racyStore hides existing titles from the explicit check so that the
// storage constraint is the one rejecting the write
type racyStore struct {
	repository.Store
}

func (s *racyStore) Tasks() repository.TaskRepository {
	return &racyTasks{TaskRepository: s.Store.Tasks()}
}

func (s *racyStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return fn(ctx, &racyStore{Store: tx})
	})
}

type racyTasks struct {
	repository.TaskRepository
}

func (r *racyTasks) TitleExists(context.Context, int64, string, int64) (bool, error) {
	return false, nil
}
