package models

import "time"

// Category, Difficulty and ProgrammingLanguage are staff-administered
// reference data. Rows stay deletable only while nothing references them.

type Category struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Difficulty struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProgrammingLanguage struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferenceKind identifies a reference entity type for caching purposes.
type ReferenceKind string

const (
	KindCategory   ReferenceKind = "categories"
	KindDifficulty ReferenceKind = "difficulties"
	KindLanguage   ReferenceKind = "languages"
)
