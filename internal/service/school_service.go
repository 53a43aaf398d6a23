package service

import (
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"

	"gorm.io/gorm"
)

type SchoolService struct {
	SchoolRepo *repository.SchoolRepository
	UserRepo   *repository.UserRepository
}

func NewSchoolService(schoolRepo *repository.SchoolRepository, userRepo *repository.UserRepository) *SchoolService {
	return &SchoolService{
		SchoolRepo: schoolRepo,
		UserRepo:   userRepo,
	}
}

// SchoolView is a school annotated with the caller's unlock state.
type SchoolView struct {
	model.School
	Unlocked   bool `json:"unlocked"`
	XPToUnlock int  `json:"xpToUnlock"`
}

// ListForUser returns all schools with unlock state recomputed from the
// user's current XP. Nothing is persisted about unlocks.
func (s *SchoolService) ListForUser(userID uint) ([]SchoolView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	schools, err := s.SchoolRepo.FindAll()
	if err != nil {
		return nil, err
	}

	views := make([]SchoolView, len(schools))
	for i, school := range schools {
		views[i] = SchoolView{
			School:     school,
			Unlocked:   progression.IsUnlocked(user.XP, school.UnlockXP),
			XPToUnlock: progression.UnlockGap(user.XP, school.UnlockXP),
		}
	}
	return views, nil
}

// UnlockedNames lists schools the user currently clears, for filtering the
// course catalog. The free tier (threshold 0) is always present.
func (s *SchoolService) UnlockedNames(userXP int) ([]string, error) {
	schools, err := s.SchoolRepo.FindAll()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, school := range schools {
		if progression.IsUnlocked(userXP, school.UnlockXP) {
			names = append(names, school.Name)
		}
	}
	return names, nil
}

func (s *SchoolService) Upsert(school *model.School) error {
	existing, err := s.SchoolRepo.FindByName(school.Name)
	if err == nil {
		school.ID = existing.ID
		school.CreatedAt = existing.CreatedAt
		return s.SchoolRepo.Update(school)
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.SchoolRepo.Create(school)
}
