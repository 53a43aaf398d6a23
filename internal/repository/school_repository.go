package repository

import (
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"

	"gorm.io/gorm"
)

type SchoolRepository struct {
	DB *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{DB: db}
}

// FindAll returns schools cheapest threshold first, which is also the
// order the map screen renders them in.
func (r *SchoolRepository) FindAll() ([]model.School, error) {
	var schools []model.School
	err := r.DB.Order("unlock_xp ASC, position ASC").Find(&schools).Error
	return schools, err
}

func (r *SchoolRepository) FindByName(name string) (*model.School, error) {
	var school model.School
	err := r.DB.Where("name = ?", name).First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepository) Create(school *model.School) error {
	return r.DB.Create(school).Error
}

func (r *SchoolRepository) Update(school *model.School) error {
	return r.DB.Save(school).Error
}

type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) FindAllOrdered() ([]model.Level, error) {
	var levels []model.Level
	err := r.DB.Order("level_number ASC").Find(&levels).Error
	return levels, err
}
