package model

// School is a top-level content group gated by an XP threshold. There is
// no persisted "unlocked" flag anywhere: whether a user sees a school is
// recomputed from their current XP on every request.
// swagger:model School
type School struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	UnlockXP    int    `gorm:"default:0" json:"unlockXp"`
	Position    int    `gorm:"default:0" json:"position"`
}

func (School) TableName() string {
	return "schools"
}

// Level is a row of the shared level ladder. Derived from XP, never
// authoritative on its own.
// swagger:model Level
type Level struct {
	BaseModel
	LevelNumber int    `gorm:"uniqueIndex;not null" json:"levelNumber"`
	Title       string `gorm:"size:100" json:"title"`
	XPThreshold int    `gorm:"not null" json:"xpThreshold"`
}

func (Level) TableName() string {
	return "levels"
}
