package service

import (
	"time"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/repository"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/util"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Levels   *LevelService
}

func NewUserService(userRepo *repository.UserRepository, levels *LevelService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Levels:   levels,
	}
}

// ProfileView is the account page payload: the user plus their ladder
// standing derived from current XP.
type ProfileView struct {
	User     *model.User    `json:"user"`
	Standing *LevelStanding `json:"standing"`
}

func (s *UserService) Profile(userID uint) (*ProfileView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	standing, err := s.Levels.StandingForXP(user.XP)
	if err != nil {
		return nil, err
	}

	return &ProfileView{User: user, Standing: standing}, nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

func (s *UserService) UpdateUser(user *model.User) error {
	existing, err := s.UserRepo.FindByID(user.ID)
	if err != nil {
		return util.ErrUserNotFound
	}

	existing.Name = user.Name
	existing.Language = user.Language
	existing.Avatar = user.Avatar
	existing.UpdatedAt = time.Now()

	return s.UserRepo.Update(existing)
}

func (s *UserService) DisableUser(id uint, disable bool) error {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}

	user.Disabled = disable
	user.UpdatedAt = time.Now()

	return s.UserRepo.Update(user)
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *UserService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   user.Name,
			XP:     user.XP,
			Avatar: user.Avatar,
		}
	}
	return leaderboard, nil
}
