package models

import "time"

type Solution struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	TaskID      uint64     `gorm:"not null;index:idx_solutions_public_task" json:"task"`
	Code        string     `gorm:"type:text;not null" json:"code"`
	LanguageID  uint64     `gorm:"not null" json:"language"`
	Explanation string     `gorm:"type:text" json:"explanation"`
	UserID      uint64     `gorm:"not null;index" json:"-"`
	IsPublic    bool       `gorm:"not null;default:false;index:idx_solutions_public_task" json:"is_public"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Task     ProgrammingTask     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Language ProgrammingLanguage `gorm:"foreignKey:LanguageID;constraint:OnDelete:RESTRICT" json:"-"`
	User     User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews  []Review            `gorm:"foreignKey:SolutionID;constraint:OnDelete:CASCADE" json:"-"`
}
