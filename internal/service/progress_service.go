package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"sort"
	"strings"
	"time"
)

const (
	DefaultVolumeDays = 7
	MaxVolumeDays     = 366
)

// ProgressService derives chart series from the caller's routines.
// Each call reads the routine list once and reduces it in memory.
type ProgressService interface {
	VolumeByDay(ctx context.Context, claims domain.Claims, days int) ([]domain.DayVolume, error)
	ExerciseProgress(ctx context.Context, claims domain.Claims, exercise string) (*domain.ExerciseProgress, error)
}

type progressService struct {
	routineRepo repository.RoutineRepository
	now         func() time.Time
}

func NewProgressService(routineRepo repository.RoutineRepository) ProgressService {
	return &progressService{
		routineRepo: routineRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// VolumeByDay returns one entry per day for the last days days, today included,
// oldest first. Days without routines have zero volume.
func (s *progressService) VolumeByDay(ctx context.Context, claims domain.Claims, days int) ([]domain.DayVolume, error) {
	if days == 0 {
		days = DefaultVolumeDays
	}
	if days < 1 || days > MaxVolumeDays {
		return nil, invalidField("days", "days must be between 1 and 366")
	}

	routines, err := s.routineRepo.ListByOwner(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return volumeByDay(routines, s.now(), days), nil
}

// ExerciseProgress groups routines named exercise (case-insensitive) by date.
func (s *progressService) ExerciseProgress(ctx context.Context, claims domain.Claims, exercise string) (*domain.ExerciseProgress, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil, invalidField("name", "exercise name is required")
	}

	routines, err := s.routineRepo.ListByOwner(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return exerciseProgress(routines, exercise), nil
}

func volumeByDay(routines []domain.Routine, now time.Time, days int) []domain.DayVolume {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	series := make([]domain.DayVolume, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i-days+1).Format(domain.DateLayout)
		series[i] = domain.DayVolume{Date: date}
		index[date] = i
	}

	for i := range routines {
		if pos, ok := index[routines[i].Date]; ok {
			series[pos].Volume += routines[i].Volume()
		}
	}
	return series
}

func exerciseProgress(routines []domain.Routine, exercise string) *domain.ExerciseProgress {
	byDate := map[string]*domain.ExerciseSession{}
	for i := range routines {
		r := &routines[i]
		if !strings.EqualFold(strings.TrimSpace(r.Name), exercise) {
			continue
		}
		session, ok := byDate[r.Date]
		if !ok {
			session = &domain.ExerciseSession{Date: r.Date}
			byDate[r.Date] = session
		}
		if w := r.MaxWeight(); w > session.MaxWeight {
			session.MaxWeight = w
		}
		session.Volume += r.Volume()
	}

	progress := &domain.ExerciseProgress{
		Exercise: exercise,
		Sessions: make([]domain.ExerciseSession, 0, len(byDate)),
	}
	for _, session := range byDate {
		progress.Sessions = append(progress.Sessions, *session)
	}
	// YYYY-MM-DD sorts lexically in date order.
	sort.Slice(progress.Sessions, func(i, j int) bool {
		return progress.Sessions[i].Date < progress.Sessions[j].Date
	})

	if n := len(progress.Sessions); n > 0 {
		progress.StartingWeight = progress.Sessions[0].MaxWeight
		progress.CurrentWeight = progress.Sessions[n-1].MaxWeight
		progress.Improvement = progress.CurrentWeight - progress.StartingWeight
		for _, session := range progress.Sessions {
			if session.MaxWeight > progress.BestWeight {
				progress.BestWeight = session.MaxWeight
			}
		}
	}
	return progress
}
