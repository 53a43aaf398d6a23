package service

import (
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
)

// LevelService answers "what level is this XP balance" from the shared
// level ladder. The ladder is reference data every user sees identically.
type LevelService struct {
	LevelRepo *repository.LevelRepository
}

func NewLevelService(levelRepo *repository.LevelRepository) *LevelService {
	return &LevelService{LevelRepo: levelRepo}
}

// LevelStanding is a user's position on the ladder.
type LevelStanding struct {
	Current     *model.Level `json:"currentLevel"`
	Next        *model.Level `json:"nextLevel"`
	XP          int          `json:"xp"`
	XPToNext    int          `json:"xpToNext"`
	LevelNumber int          `json:"levelNumber"`
}

func (s *LevelService) ListLevels() ([]model.Level, error) {
	return s.LevelRepo.FindAllOrdered()
}

// fallbackStep spaces the computed ladder used when the levels table has
// not been seeded yet.
const fallbackStep = 500

// StandingForXP finds the highest level whose threshold the balance
// clears, and the one after it. A balance below every threshold sits at
// the first level. An empty ladder falls back to evenly spaced computed
// thresholds so the profile page always has a level to show.
func (s *LevelService) StandingForXP(xp int) (*LevelStanding, error) {
	levels, err := s.LevelRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		n := xp/fallbackStep + 1
		current := &model.Level{LevelNumber: n, XPThreshold: (n - 1) * fallbackStep}
		next := &model.Level{LevelNumber: n + 1, XPThreshold: n * fallbackStep}
		return &LevelStanding{
			Current:     current,
			Next:        next,
			XP:          xp,
			XPToNext:    next.XPThreshold - xp,
			LevelNumber: n,
		}, nil
	}

	current := levels[0]
	var next *model.Level
	for i := len(levels) - 1; i >= 0; i-- {
		if xp >= levels[i].XPThreshold {
			current = levels[i]
			if i < len(levels)-1 {
				next = &levels[i+1]
			}
			break
		}
	}
	if xp < levels[0].XPThreshold && len(levels) > 1 {
		next = &levels[1]
	}

	standing := &LevelStanding{
		Current:     &current,
		Next:        next,
		XP:          xp,
		LevelNumber: current.LevelNumber,
	}
	if next != nil {
		standing.XPToNext = next.XPThreshold - xp
		if standing.XPToNext < 0 {
			standing.XPToNext = 0
		}
	}
	return standing, nil
}
