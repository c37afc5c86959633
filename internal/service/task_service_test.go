package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task_manager/internal/model"
	"task_manager/internal/repository"
)

var fixedNow = time.Date(2031, time.June, 15, 10, 0, 0, 0, time.Local)

func newTestTaskService(store repository.Store) *taskService {
	return &taskService{store: store, now: func() time.Time { return fixedNow }}
}

func TestTaskService_CreateTitleConflict(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")
	bob := registerUser(t, store, "22222222")

	_, err := svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Comprar pan"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: " Comprar pan "})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, FieldTitle, conflict.Field)
	assert.Equal(t, MsgTaskTitleTaken, conflict.Message)

	_, err = svc.Create(ctx, bob.ID, model.CreateTaskRequest{Title: "Comprar pan"})
	assert.NoError(t, err)
}

func TestTaskService_LateDuplicateIsConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")

	_, err := newTestTaskService(store).Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Comprar pan"})
	require.NoError(t, err)

	racy := newTestTaskService(&racyStore{Store: store})
	_, err = racy.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Comprar pan"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, MsgTaskTitleTaken, conflict.Message)
}

func TestTaskService_CreateValidation(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	alice := registerUser(t, store, "11111111")

	_, err := svc.Create(context.Background(), alice.ID, model.CreateTaskRequest{
		Title:       "   ",
		Description: strPtr("corta"),
		DueDate:     strPtr("2031-06-14"),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		FieldTitle:       msgTitleRequired,
		FieldDescription: msgDescriptionShort,
		FieldDueDate:     msgDueDateInvalid,
	}, verr.Fields)
}

func TestTaskService_DueDateBoundary(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")

	task, err := svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Hoy", DueDate: strPtr("2031-06-15")})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2031-06-15", task.DueDate.String())

	_, err = svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Ayer", DueDate: strPtr("2031-06-14")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, FieldDueDate)

	_, err = svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Mal", DueDate: strPtr("15/06/2031")})
	require.ErrorAs(t, err, &verr)

	task, err = svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Sin fecha", DueDate: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
}

func TestTaskService_PartialUpdate(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")

	task, err := svc.Create(ctx, alice.ID, model.CreateTaskRequest{
		Title:       "Informe",
		Description: strPtr("Primer borrador del informe"),
		DueDate:     strPtr("2031-07-01"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, alice.ID, task.ID, model.UpdateTaskRequest{Description: strPtr("Versión final del informe")})
	require.NoError(t, err)
	assert.Equal(t, "Informe", updated.Title)
	assert.Equal(t, "2031-07-01", updated.DueDate.String())
	assert.Equal(t, "Versión final del informe", *updated.Description)

	stored, err := svc.Get(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Informe", stored.Title)
	assert.Equal(t, "2031-07-01", stored.DueDate.String())

	cleared, err := svc.Update(ctx, alice.ID, task.ID, model.UpdateTaskRequest{Description: strPtr(""), DueDate: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Nil(t, cleared.DueDate)
	assert.Equal(t, "Informe", cleared.Title)
}

func TestTaskService_UpdateTitle(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")

	first, err := svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Uno"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Dos"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice.ID, first.ID, model.UpdateTaskRequest{Title: strPtr("Dos")})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	// renaming to its own title is allowed
	_, err = svc.Update(ctx, alice.ID, first.ID, model.UpdateTaskRequest{Title: strPtr("Uno")})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, alice.ID, first.ID, model.UpdateTaskRequest{Title: strPtr("")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgTitleEmpty, verr.Fields[FieldTitle])
}

func TestTaskService_OwnershipIsAbsence(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")
	bob := registerUser(t, store, "22222222")

	task, err := svc.Create(ctx, bob.ID, model.CreateTaskRequest{Title: "De Bob"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, alice.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Update(ctx, alice.ID, task.ID, model.UpdateTaskRequest{Title: strPtr("Robada")})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.Delete(ctx, alice.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	stored, err := svc.Get(ctx, bob.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "De Bob", stored.Title)

	require.NoError(t, svc.Delete(ctx, bob.ID, task.ID))
	_, err = svc.Get(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_ListUnknownSort(t *testing.T) {
	store := newTestStore(t)
	svc := newTestTaskService(store)
	ctx := context.Background()
	alice := registerUser(t, store, "11111111")

	_, err := svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Primera"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice.ID, model.CreateTaskRequest{Title: "Segunda"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, alice.ID, model.TaskFilter{SortBy: "nonsense"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// same creation time, newest id first
	assert.Equal(t, "Segunda", tasks[0].Title)
}
