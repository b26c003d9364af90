package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/storage"
	"alcyxob/routine-tracker/internal/storage/mocks"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoutineService_CreateAndOwnerScoping(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, nil)
	ctx := context.Background()
	alice := ClaimsFor(createUser(t, repos, domain.RoleUser))
	bob := ClaimsFor(createUser(t, repos, domain.RoleUser))

	input := validRoutine("Squat", "2025-04-10")
	input.OwnerUserID = bob.UserID
	input.IsTemplate = true
	input.ProgramID = strPtr("program-x")

	created, err := svc.Create(ctx, alice, input)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, created.OwnerUserID)
	assert.False(t, created.IsTemplate)
	assert.Nil(t, created.ProgramID)

	got, err := svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Sets, got.Sets)

	_, err = svc.Get(ctx, bob, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, bob, created.ID, domain.RoutinePatch{Name: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Remove(ctx, bob, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	bobList, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	aliceList, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, "Squat", aliceList[0].Name)
}

func TestRoutineService_CreateValidation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, nil)
	claims := ClaimsFor(createUser(t, repos, domain.RoleUser))

	_, err := svc.Create(context.Background(), claims, domain.Routine{
		Date: "10/04/2025",
		Sets: []domain.RoutineSet{{Series: 0, Repetitions: 5}},
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	for _, field := range []string{"category", "name", "date", "sets[0].series"} {
		assert.Contains(t, validation.Fields, field)
	}

	list, err := svc.List(context.Background(), claims)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRoutineService_Update(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, nil)
	ctx := context.Background()
	claims := ClaimsFor(createUser(t, repos, domain.RoleUser))

	created, err := svc.Create(ctx, claims, validRoutine("Bench", "2025-04-11"))
	require.NoError(t, err)

	unchanged, err := svc.Update(ctx, claims, created.ID, domain.RoutinePatch{})
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt.Unix(), unchanged.UpdatedAt.Unix())
	assert.Equal(t, "Bench", unchanged.Name)

	sets := []domain.RoutineSet{{Series: 5, Repetitions: 5, Weight: strPtr("80kg")}}
	updated, err := svc.Update(ctx, claims, created.ID, domain.RoutinePatch{Sets: &sets, Observations: strPtr("heavy day")})
	require.NoError(t, err)
	assert.Equal(t, "Bench", updated.Name)
	assert.Equal(t, sets, updated.Sets)

	stored, err := svc.Get(ctx, claims, created.ID)
	require.NoError(t, err)
	assert.Equal(t, sets, stored.Sets)
	assert.Equal(t, "heavy day", *stored.Observations)

	empty := []domain.RoutineSet{}
	_, err = svc.Update(ctx, claims, created.ID, domain.RoutinePatch{Sets: &empty})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "sets")

	stored, err = svc.Get(ctx, claims, created.ID)
	require.NoError(t, err)
	assert.Equal(t, sets, stored.Sets)
}

func TestRoutineService_Remove(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, nil)
	ctx := context.Background()
	claims := ClaimsFor(createUser(t, repos, domain.RoleUser))

	created, err := svc.Create(ctx, claims, validRoutine("Row", "2025-04-12"))
	require.NoError(t, err)

	id, err := svc.Remove(ctx, claims, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	_, err = svc.Get(ctx, claims, created.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
	_, err = svc.Remove(ctx, claims, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoutineService_VideoUploadAndLinks(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileStorage := mocks.NewMockFileStorage(ctrl)
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, fileStorage)
	ctx := context.Background()
	claims := ClaimsFor(createUser(t, repos, domain.RoleUser))

	input := validRoutine("Snatch", "2025-04-13")
	input.VideoURLs = []string{"https://youtu.be/technique"}
	created, err := svc.Create(ctx, claims, input)
	require.NoError(t, err)

	fileStorage.EXPECT().
		GeneratePresignedUploadURL(gomock.Any(), gomock.Any(), "video/mp4", storage.DefaultPresignedURLExpiry).
		DoAndReturn(func(_ context.Context, key, _ string, _ time.Duration) (string, error) {
			return "https://bucket.local/" + key + "?sig=put", nil
		})

	upload, err := svc.RequestVideoUpload(ctx, claims, created.ID, "lift.MP4", "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "routines/"+claims.UserID+"/"+created.ID+"/"))
	assert.True(t, strings.HasSuffix(upload.ObjectKey, ".mp4"))
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	stored, err := svc.Get(ctx, claims, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/technique", upload.ObjectKey}, stored.VideoURLs)

	fileStorage.EXPECT().
		GeneratePresignedDownloadURL(gomock.Any(), upload.ObjectKey, storage.DefaultPresignedURLExpiry).
		Return("https://bucket.local/signed-get", nil)

	links, err := svc.VideoLinks(ctx, claims, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/technique", "https://bucket.local/signed-get"}, links)

	// Only stored objects are removed; a storage failure does not block deletion.
	fileStorage.EXPECT().DeleteObject(gomock.Any(), upload.ObjectKey).Return(errors.New("bucket offline"))
	_, err = svc.Remove(ctx, claims, created.ID)
	require.NoError(t, err)
}

func TestRoutineService_VideoUploadRejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileStorage := mocks.NewMockFileStorage(ctrl)
	repos := newTestRepos(t)
	ctx := context.Background()
	claims := ClaimsFor(createUser(t, repos, domain.RoleUser))
	other := ClaimsFor(createUser(t, repos, domain.RoleUser))

	svc := NewRoutineService(repos.routines, fileStorage)
	created, err := svc.Create(ctx, claims, validRoutine("Clean", "2025-04-14"))
	require.NoError(t, err)

	_, err = svc.RequestVideoUpload(ctx, claims, created.ID, "notes.txt", "text/plain")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "contentType")

	_, err = svc.RequestVideoUpload(ctx, other, created.ID, "clip.mp4", "video/mp4")
	assert.ErrorIs(t, err, ErrNotFound)

	disabled := NewRoutineService(repos.routines, nil)
	_, err = disabled.RequestVideoUpload(ctx, claims, created.ID, "clip.mp4", "video/mp4")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRoutineService_RejectsVideoKeysOfOtherRoutines(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileStorage := mocks.NewMockFileStorage(ctrl)
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, fileStorage)
	ctx := context.Background()
	alice := ClaimsFor(createUser(t, repos, domain.RoleUser))
	bob := ClaimsFor(createUser(t, repos, domain.RoleUser))

	aliceRoutine, err := svc.Create(ctx, alice, validRoutine("Deadlift", "2025-04-15"))
	require.NoError(t, err)
	fileStorage.EXPECT().
		GeneratePresignedUploadURL(gomock.Any(), gomock.Any(), "video/mp4", storage.DefaultPresignedURLExpiry).
		Return("https://bucket.local/put", nil)
	upload, err := svc.RequestVideoUpload(ctx, alice, aliceRoutine.ID, "pull.mp4", "video/mp4")
	require.NoError(t, err)

	var validation *ValidationError

	input := validRoutine("Deadlift", "2025-04-15")
	input.VideoURLs = []string{upload.ObjectKey}
	_, err = svc.Create(ctx, bob, input)
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "videoUrls[0]")

	bobRoutine, err := svc.Create(ctx, bob, validRoutine("Deadlift", "2025-04-15"))
	require.NoError(t, err)

	refs := []string{"https://youtu.be/setup", upload.ObjectKey}
	_, err = svc.Update(ctx, bob, bobRoutine.ID, domain.RoutinePatch{VideoURLs: &refs})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "videoUrls[1]")

	// bob's own id on a routine that is not his is refused too
	refs = []string{storage.RoutineVideoKey(bob.UserID, aliceRoutine.ID, "x.mp4"), "bare-key.mp4"}
	_, err = svc.Update(ctx, bob, bobRoutine.ID, domain.RoutinePatch{VideoURLs: &refs})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "videoUrls[0]")
	assert.Contains(t, validation.Fields, "videoUrls[1]")

	stored, err := svc.Get(ctx, bob, bobRoutine.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.VideoURLs)

	// alice may reorder and keep her own uploads
	own := []string{"https://youtu.be/warmup", upload.ObjectKey}
	updated, err := svc.Update(ctx, alice, aliceRoutine.ID, domain.RoutinePatch{VideoURLs: &own})
	require.NoError(t, err)
	assert.Equal(t, own, updated.VideoURLs)
}

func TestRoutineService_StoredForeignKeysNeverReachStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileStorage := mocks.NewMockFileStorage(ctrl)
	repos := newTestRepos(t)
	svc := NewRoutineService(repos.routines, fileStorage)
	ctx := context.Background()
	alice := ClaimsFor(createUser(t, repos, domain.RoleUser))
	bob := ClaimsFor(createUser(t, repos, domain.RoleUser))

	created, err := svc.Create(ctx, bob, validRoutine("Press", "2025-04-16"))
	require.NoError(t, err)

	// written straight through the repository, as older rows may hold such refs
	aliceKey := storage.RoutineVideoKey(alice.UserID, "r1", "video.mp4")
	created.VideoURLs = []string{"https://youtu.be/press", aliceKey, "loose/object.mp4"}
	require.NoError(t, repos.routines.Update(ctx, created))

	fileStorage.EXPECT().GeneratePresignedDownloadURL(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	fileStorage.EXPECT().DeleteObject(gomock.Any(), gomock.Any()).Times(0)

	links, err := svc.VideoLinks(ctx, bob, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/press"}, links)

	_, err = svc.Remove(ctx, bob, created.ID)
	require.NoError(t, err)
}

func TestRoutineService_ClonedRoutineUsesTemplateVideos(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileStorage := mocks.NewMockFileStorage(ctrl)
	repos := newTestRepos(t)
	ctx := context.Background()
	professor := createUser(t, repos, domain.RoleProfessor)
	user := ClaimsFor(createUser(t, repos, domain.RoleUser))

	programs := NewTrainingProgramService(repos.users, repos.programs, repos.routines)
	routines := NewRoutineService(repos.routines, fileStorage)

	program, err := programs.CreateProgram(ctx, professor.ID, ProgramInput{Name: "Olympic lifting"})
	require.NoError(t, err)
	tpl, err := programs.AddTemplateRoutine(ctx, ClaimsFor(professor), program.ID, validRoutine("Clean", "2025-05-02"))
	require.NoError(t, err)

	fileStorage.EXPECT().
		GeneratePresignedUploadURL(gomock.Any(), gomock.Any(), "video/mp4", storage.DefaultPresignedURLExpiry).
		Return("https://bucket.local/put", nil)
	upload, err := routines.RequestVideoUpload(ctx, ClaimsFor(professor), tpl.ID, "clean.mp4", "video/mp4")
	require.NoError(t, err)

	count, err := programs.CloneProgramForUser(ctx, program.ID, user.UserID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	clones, err := routines.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, clones, 1)
	assert.Equal(t, []string{upload.ObjectKey}, clones[0].VideoURLs)

	fileStorage.EXPECT().
		GeneratePresignedDownloadURL(gomock.Any(), upload.ObjectKey, storage.DefaultPresignedURLExpiry).
		Return("https://bucket.local/get", nil)
	links, err := routines.VideoLinks(ctx, user, clones[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://bucket.local/get"}, links)

	// the template keeps its object when the copy goes away
	fileStorage.EXPECT().DeleteObject(gomock.Any(), gomock.Any()).Times(0)
	_, err = routines.Remove(ctx, user, clones[0].ID)
	require.NoError(t, err)
}
