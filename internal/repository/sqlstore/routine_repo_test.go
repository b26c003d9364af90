package sqlstore

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "routines-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, Close(database))
	})
	return database
}

func strPtr(s string) *string { return &s }

func newRoutine(owner string) domain.Routine {
	return domain.Routine{
		OwnerUserID: owner,
		Category:    gofakeit.RandomString([]string{"Legs", "Back", "Chest"}),
		Name:        gofakeit.RandomString([]string{"Squat", "Deadlift", "Bench"}),
		Date:        "2025-04-10",
		Sets: []domain.RoutineSet{
			{Series: 3, Repetitions: 12, Weight: strPtr("40kg"), Rest: strPtr("90s")},
			{Series: 2, Repetitions: 8, Weight: strPtr("52.5kg")},
			{Series: 1, Repetitions: 20, Time: strPtr("45s")},
		},
		Observations: strPtr("felt strong"),
	}
}

func TestRoutineRepository_SetsRoundTrip(t *testing.T) {
	repo := NewRoutineRepository(openTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	routine := newRoutine(owner)
	require.NoError(t, repo.Create(ctx, &routine))
	require.NotEmpty(t, routine.ID)
	assert.False(t, routine.CreatedAt.IsZero())

	stored, err := repo.GetByIDAndOwner(ctx, routine.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, routine.Sets, stored.Sets)
	assert.Equal(t, routine.Name, stored.Name)
	assert.Equal(t, "felt strong", *stored.Observations)
	assert.Equal(t, []string{}, stored.VideoURLs)
}

func TestRoutineRepository_OwnerScoping(t *testing.T) {
	repo := NewRoutineRepository(openTestDB(t))
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	aliceRoutine := newRoutine(alice)
	require.NoError(t, repo.Create(ctx, &aliceRoutine))

	_, err := repo.GetByIDAndOwner(ctx, aliceRoutine.ID, bob)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	bobList, err := repo.ListByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	hijack := aliceRoutine
	hijack.OwnerUserID = bob
	hijack.Name = "hijacked"
	assert.ErrorIs(t, repo.Update(ctx, &hijack), repository.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, aliceRoutine.ID, bob), repository.ErrNotFound)

	stored, err := repo.GetByIDAndOwner(ctx, aliceRoutine.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, aliceRoutine.Name, stored.Name)
}

func TestRoutineRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewRoutineRepository(openTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	var ids []string
	for _, date := range []string{"2025-05-03", "2025-05-01", "2025-05-02"} {
		r := newRoutine(owner)
		r.Date = date
		require.NoError(t, repo.Create(ctx, &r))
		ids = append(ids, r.ID)
	}

	list, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := range ids {
		assert.Equal(t, ids[i], list[i].ID)
	}
}

func TestRoutineRepository_UpdateAndDelete(t *testing.T) {
	repo := NewRoutineRepository(openTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	routine := newRoutine(owner)
	require.NoError(t, repo.Create(ctx, &routine))

	routine.Name = "Front squat"
	routine.Sets = routine.Sets[:1]
	require.NoError(t, repo.Update(ctx, &routine))

	stored, err := repo.GetByIDAndOwner(ctx, routine.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Front squat", stored.Name)
	assert.Len(t, stored.Sets, 1)

	require.NoError(t, repo.DeleteByIDAndOwner(ctx, routine.ID, owner))
	_, err = repo.GetByIDAndOwner(ctx, routine.ID, owner)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRoutineRepository_CreateManyIsAtomic(t *testing.T) {
	repo := NewRoutineRepository(openTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	existing := newRoutine(owner)
	require.NoError(t, repo.Create(ctx, &existing))

	// the second row reuses an existing public id and violates the unique index
	batch := []domain.Routine{newRoutine(owner), newRoutine(owner)}
	batch[1].ID = existing.ID
	require.Error(t, repo.CreateMany(ctx, batch))

	list, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	good := []domain.Routine{newRoutine(owner), newRoutine(owner)}
	require.NoError(t, repo.CreateMany(ctx, good))
	list, err = repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestRoutineRepository_ListTemplatesByProgram(t *testing.T) {
	repo := NewRoutineRepository(openTestDB(t))
	ctx := context.Background()
	professor := uuid.NewString()
	programID := uuid.NewString()

	for i := 0; i < 2; i++ {
		tpl := newRoutine(professor)
		tpl.IsTemplate = true
		tpl.ProgramID = &programID
		require.NoError(t, repo.Create(ctx, &tpl))
	}
	// a clone carries the programId but is not a template
	clone := newRoutine(uuid.NewString())
	clone.ProgramID = &programID
	require.NoError(t, repo.Create(ctx, &clone))

	templates, err := repo.ListTemplatesByProgram(ctx, programID)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
	for _, tpl := range templates {
		assert.True(t, tpl.IsTemplate)
	}
}
