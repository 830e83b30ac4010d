// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

const (
	// MaxPostTextLength bounds the body of a post, counted in characters.
	MaxPostTextLength = 10000

	postStringLength   = 15
	postHeadlineLength = 30
)

// Post is a single authored text entry, optionally filed under a group.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;<-:create;index" json:"pub_date"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// AuthorKey returns the owning author's id.
func (p *Post) AuthorKey() uint {
	return p.AuthorID
}

// GroupKey returns the group id and whether the post belongs to a group.
func (p *Post) GroupKey() (uint, bool) {
	if p.GroupID == nil {
		return 0, false
	}
	return *p.GroupID, true
}

// String returns a short preview of the post text.
func (p *Post) String() string {
	return truncateRunes(p.Text, postStringLength)
}

// Headline is the title shown on the post detail page.
func (p *Post) Headline() string {
	return truncateRunes(p.Text, postHeadlineLength)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
