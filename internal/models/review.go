package models

import "time"

type ReviewType int

const (
	ReviewNegative ReviewType = 0
	ReviewPositive ReviewType = 1
)

// Valid reports whether the value is one of the declared review types.
func (t ReviewType) Valid() bool {
	return t == ReviewNegative || t == ReviewPositive
}

type Review struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	SolutionID uint64     `gorm:"not null;uniqueIndex:uniq_review_per_user" json:"solution"`
	AddedByID  uint64     `gorm:"not null;uniqueIndex:uniq_review_per_user" json:"-"`
	ReviewType ReviewType `gorm:"not null" json:"review_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations
	Solution Solution `gorm:"foreignKey:SolutionID;constraint:OnDelete:CASCADE" json:"-"`
	AddedBy  User     `gorm:"foreignKey:AddedByID;constraint:OnDelete:CASCADE" json:"-"`
}
