package models

import "time"

type TaskStatus string

const (
	TaskStatusPrivate TaskStatus = "PRIVATE"
	TaskStatusPublic  TaskStatus = "PUBLIC"
	TaskStatusHidden  TaskStatus = "HIDDEN"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPrivate, TaskStatusPublic, TaskStatusHidden:
		return true
	}
	return false
}

type ProgrammingTask struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null;index;uniqueIndex:uniq_task_name_per_user" json:"name"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Resource     string     `gorm:"type:varchar(500)" json:"resource"`
	DifficultyID uint64     `gorm:"not null;index" json:"difficulty"`
	CategoryID   uint64     `gorm:"not null;index" json:"category"`
	AddedByID    uint64     `gorm:"not null;uniqueIndex:uniq_task_name_per_user" json:"-"`
	Status       TaskStatus `gorm:"type:varchar(16);not null;default:'PRIVATE';index" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Difficulty Difficulty `gorm:"foreignKey:DifficultyID;constraint:OnDelete:RESTRICT" json:"-"`
	Category   Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	AddedBy    User       `gorm:"foreignKey:AddedByID;constraint:OnDelete:CASCADE" json:"-"`
	Solutions  []Solution `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}
