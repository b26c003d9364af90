package mongo

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoTrainingProgramRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("create requires professor and name", func(mt *mtest.T) {
		repo := NewMongoTrainingProgramRepository(mt.DB)
		err := repo.Create(context.Background(), &domain.TrainingProgram{Name: "No author"})
		assert.Error(mt, err)
		assert.Empty(mt, startedCommands(mt))
	})

	mt.Run("get reports missing programs", func(mt *mtest.T) {
		repo := NewMongoTrainingProgramRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "p404")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("professor listing is filtered and ordered", func(mt *mtest.T) {
		repo := NewMongoTrainingProgramRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		programs, err := repo.ListByProfessor(context.Background(), "prof")
		require.NoError(mt, err)
		assert.NotNil(mt, programs)

		evt := nextStarted(mt)
		assert.Equal(mt, "prof", evt.Command.Lookup("filter", "professorId").StringValue())
		order, ok := evt.Command.Lookup("sort", "createdAt").AsInt64OK()
		assert.True(mt, ok)
		assert.Equal(mt, int64(1), order)
	})

	mt.Run("assignment goes to its own collection", func(mt *mtest.T) {
		repo := NewMongoTrainingProgramRepository(mt.DB)
		mt.AddMockResponses(okResponse(bson.E{Key: "n", Value: 1}))

		assignment := &domain.ProgramAssignment{ProgramID: "p1", UserID: "u1"}
		require.NoError(mt, repo.CreateAssignment(context.Background(), assignment))
		assert.NotEmpty(mt, assignment.ID)

		evt := nextStarted(mt)
		assert.Equal(mt, assignmentCollectionName, evt.Command.Lookup("insert").StringValue())
		assert.Equal(mt, "p1", evt.Command.Lookup("documents", "0", "programId").StringValue())
	})

	mt.Run("assigned programs are looked up by id", func(mt *mtest.T) {
		repo := NewMongoTrainingProgramRepository(mt.DB)
		mt.AddMockResponses(
			okResponse(bson.E{Key: "values", Value: bson.A{"p1", "p2"}}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "p1"}, {Key: "professorId", Value: "prof"}, {Key: "name", Value: "Strength"}},
				bson.D{{Key: "_id", Value: "p2"}, {Key: "professorId", Value: "prof"}, {Key: "name", Value: "Mobility"}},
			),
		)

		programs, err := repo.ListAssignedToUser(context.Background(), "u1")
		require.NoError(mt, err)
		require.Len(mt, programs, 2)
		assert.Equal(mt, "Strength", programs[0].Name)

		distinct := nextStarted(mt)
		assert.Equal(mt, "distinct", distinct.CommandName)
		assert.Equal(mt, "u1", distinct.Command.Lookup("query", "userId").StringValue())

		find := nextStarted(mt)
		ids, err := find.Command.Lookup("filter", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, ids, 2)
	})

	mt.Run("no assignments skips the program query", func(mt *mtest.T) {
		repo := NewMongoTrainingProgramRepository(mt.DB)
		mt.AddMockResponses(okResponse(bson.E{Key: "values", Value: bson.A{}}))

		programs, err := repo.ListAssignedToUser(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Empty(mt, programs)
		assert.Equal(mt, []string{"distinct"}, startedCommands(mt))
	})
}
