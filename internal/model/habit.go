package model

type FrequencyType string

const (
	FrequencyDaily  FrequencyType = "daily"
	FrequencyWeekly FrequencyType = "weekly"
)

// HabitTemplate is a library entry users adopt habits from.
// swagger:model HabitTemplate
type HabitTemplate struct {
	BaseModel
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"size:1000" json:"description"`
	XPReward    int           `gorm:"default:10" json:"xpReward"`
	Frequency   FrequencyType `gorm:"size:20;default:'daily'" json:"frequencyType"`
	Enabled     bool          `gorm:"default:true" json:"enabled"`
}

func (HabitTemplate) TableName() string {
	return "habit_templates"
}

// UserHabit is a recurring item one user tracks. Deleting it removes its
// completions too; there is no soft-deleted completion history.
// swagger:model UserHabit
type UserHabit struct {
	BaseModel
	UserID      uint          `gorm:"index;not null" json:"userId"`
	TemplateID  *uint         `gorm:"index" json:"templateId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"size:1000" json:"description"`
	XPReward    int           `gorm:"default:10" json:"xpReward"`
	Frequency   FrequencyType `gorm:"size:20;default:'daily'" json:"frequencyType"`
}

func (UserHabit) TableName() string {
	return "user_habits"
}

// HabitCompletion records "this habit was done on this day". Existence is
// the whole fact: toggling off deletes the row, so streaks stay a pure
// function of the rows present. The unique index over (user, habit, day)
// is the authoritative double-completion guard; the service treats a
// duplicate-key insert as a concurrency signal, not a success.
// swagger:model HabitCompletion
type HabitCompletion struct {
	BaseModel
	UserID   uint   `gorm:"index:idx_habit_completion_day,unique;not null" json:"userId"`
	HabitID  uint   `gorm:"index:idx_habit_completion_day,unique;not null" json:"habitId"`
	Day      string `gorm:"size:10;index:idx_habit_completion_day,unique;not null" json:"day"`
	XPEarned int    `gorm:"default:0" json:"xpEarned"`
}

func (HabitCompletion) TableName() string {
	return "user_habit_completions"
}
