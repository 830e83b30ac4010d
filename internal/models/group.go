package models

import "time"

const (
	// MaxGroupTitleLength bounds Group.Title.
	MaxGroupTitleLength = 200
	// MaxGroupSlugLength bounds Group.Slug.
	MaxGroupSlugLength = 100
)

// Group is a named community that posts may optionally belong to.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id" yaml:"-"`
	Title       string    `gorm:"size:200;not null" json:"title" yaml:"title"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug" yaml:"slug"`
	Description string    `gorm:"type:text" json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"-" yaml:"-"`
	UpdatedAt   time.Time `json:"-" yaml:"-"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}

func (g Group) String() string {
	return g.Title
}
