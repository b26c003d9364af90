package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository/sqlstore"
	"context"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	users    *sqlstore.UserRepository
	routines *sqlstore.RoutineRepository
	programs *sqlstore.TrainingProgramRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	database, err := sqlstore.Open(sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "service-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqlstore.Close(database))
	})
	return testRepos{
		users:    sqlstore.NewUserRepository(database),
		routines: sqlstore.NewRoutineRepository(database),
		programs: sqlstore.NewTrainingProgramRepository(database),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// createUser stores an account directly, skipping password hashing.
func createUser(t *testing.T, repos testRepos, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:     gofakeit.Email(),
		Role:      role,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		IsActive:  true,
	}
	require.NoError(t, repos.users.Create(context.Background(), user))
	return user
}

func validRoutine(name, date string) domain.Routine {
	return domain.Routine{
		Category: "Legs",
		Name:     name,
		Date:     date,
		Sets: []domain.RoutineSet{
			{Series: 3, Repetitions: 10, Weight: strPtr("50kg")},
			{Series: 1, Repetitions: 5, Weight: strPtr("60kg"), Rest: strPtr("2m")},
		},
	}
}
