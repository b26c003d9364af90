package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"alcyxob/routine-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// VideoUpload is the answer to an upload request: the client PUTs the file
// to UploadURL with the same Content-Type it announced.
type VideoUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type RoutineService interface {
	Create(ctx context.Context, claims domain.Claims, routine domain.Routine) (*domain.Routine, error)
	List(ctx context.Context, claims domain.Claims) ([]domain.Routine, error)
	Get(ctx context.Context, claims domain.Claims, id string) (*domain.Routine, error)
	Update(ctx context.Context, claims domain.Claims, id string, patch domain.RoutinePatch) (*domain.Routine, error)
	Remove(ctx context.Context, claims domain.Claims, id string) (string, error)
	RequestVideoUpload(ctx context.Context, claims domain.Claims, id, fileName, contentType string) (*VideoUpload, error)
	VideoLinks(ctx context.Context, claims domain.Claims, id string) ([]string, error)
}

type routineService struct {
	routineRepo repository.RoutineRepository
	fileStorage storage.FileStorage // nil when no bucket is configured
}

// NewRoutineService creates a new instance of routineService. fileStorage may be nil.
func NewRoutineService(routineRepo repository.RoutineRepository, fileStorage storage.FileStorage) RoutineService {
	return &routineService{
		routineRepo: routineRepo,
		fileStorage: fileStorage,
	}
}

// Create stores a routine owned by the caller. Lineage fields are never taken from input.
func (s *routineService) Create(ctx context.Context, claims domain.Claims, routine domain.Routine) (*domain.Routine, error) {
	routine.ID = ""
	routine.OwnerUserID = claims.UserID
	routine.IsTemplate = false
	routine.OriginalRoutineID = nil
	routine.ProgramID = nil
	if routine.VideoURLs == nil {
		routine.VideoURLs = []string{}
	}
	if err := validateRoutine(&routine); err != nil {
		return nil, err
	}

	if err := s.routineRepo.Create(ctx, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// List returns the caller's routines in insertion order.
func (s *routineService) List(ctx context.Context, claims domain.Claims) ([]domain.Routine, error) {
	return s.routineRepo.ListByOwner(ctx, claims.UserID)
}

// Get returns one of the caller's routines. Someone else's routine is reported as missing.
func (s *routineService) Get(ctx context.Context, claims domain.Claims, id string) (*domain.Routine, error) {
	routine, err := s.routineRepo.GetByIDAndOwner(ctx, id, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

// Update merges the present fields of patch. An empty patch returns the routine unchanged.
func (s *routineService) Update(ctx context.Context, claims domain.Claims, id string, patch domain.RoutinePatch) (*domain.Routine, error) {
	routine, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return routine, nil
	}

	patch.Apply(routine)
	if err := validateRoutine(routine); err != nil {
		return nil, err
	}

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

// Remove deletes one of the caller's routines and returns its id.
// Videos uploaded for this routine are removed from storage on a best-effort basis.
func (s *routineService) Remove(ctx context.Context, claims domain.Claims, id string) (string, error) {
	routine, err := s.Get(ctx, claims, id)
	if err != nil {
		return "", err
	}

	if err := s.routineRepo.DeleteByIDAndOwner(ctx, id, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRoutineNotFound
		}
		return "", err
	}

	if s.fileStorage != nil {
		for _, ref := range routine.VideoURLs {
			if classifyVideoRef(routine, ref) != videoOwned {
				continue
			}
			if err := s.fileStorage.DeleteObject(ctx, ref); err != nil {
				log.WithField("routine_id", id).Warnf("failed to delete video object %q: %v", ref, err)
			}
		}
	}
	return id, nil
}

// RequestVideoUpload reserves an object key on the routine and returns a presigned PUT URL for it.
func (s *routineService) RequestVideoUpload(ctx context.Context, claims domain.Claims, id, fileName, contentType string) (*VideoUpload, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	fields := map[string]string{}
	if strings.TrimSpace(fileName) == "" {
		fields["fileName"] = "file name is required"
	}
	if !strings.HasPrefix(contentType, "video/") {
		fields["contentType"] = "content type must be a video/* type"
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	routine, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	key := storage.RoutineVideoKey(claims.UserID, routine.ID, fileName)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	routine.VideoURLs = append(routine.VideoURLs, key)
	if err := s.routineRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return &VideoUpload{UploadURL: uploadURL, ObjectKey: key}, nil
}

// VideoLinks resolves the routine's videos into playable URLs. Keys uploaded for
// the routine, or for the template it was cloned from, are presigned; absolute
// links are returned as stored. Any other key is left out.
func (s *routineService) VideoLinks(ctx context.Context, claims domain.Claims, id string) ([]string, error) {
	routine, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0, len(routine.VideoURLs))
	for _, ref := range routine.VideoURLs {
		switch classifyVideoRef(routine, ref) {
		case videoExternal:
			links = append(links, ref)
			continue
		case videoForeign:
			log.WithField("routine_id", routine.ID).Warnf("skipping video key %q not issued for this routine", ref)
			continue
		}
		if s.fileStorage == nil {
			return nil, ErrStorageDisabled
		}
		link, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, ref, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

type videoRefKind int

const (
	videoExternal videoRefKind = iota
	videoOwned
	videoInherited
	videoForeign
)

// classifyVideoRef decides what a stored video reference may be used for.
// Only RequestVideoUpload issues object keys: a key is owned when its path names
// this routine and its owner, inherited when it names the template the routine
// was cloned from, and foreign otherwise.
func classifyVideoRef(routine *domain.Routine, ref string) videoRefKind {
	if storage.IsExternalURL(ref) {
		return videoExternal
	}
	owner, routineID, ok := storage.ParseRoutineVideoKey(ref)
	switch {
	case !ok:
		return videoForeign
	case routine.ID != "" && routineID == routine.ID && owner == routine.OwnerUserID:
		return videoOwned
	case routine.OriginalRoutineID != nil && *routine.OriginalRoutineID != "" && routineID == *routine.OriginalRoutineID:
		return videoInherited
	}
	return videoForeign
}

// validateRoutine checks the routine fields and that every video reference is
// either an http(s) link or a key the routine is entitled to.
func validateRoutine(routine *domain.Routine) error {
	problems := routine.Validate()
	for i, ref := range routine.VideoURLs {
		if classifyVideoRef(routine, ref) == videoForeign {
			problems[fmt.Sprintf("videoUrls[%d]", i)] = "must be an http(s) URL or a video uploaded to this routine"
		}
	}
	return validationError(problems)
}
