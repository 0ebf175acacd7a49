package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"user" gorm:"type:uuid;index;not null"`
	Text   string    `json:"text" gorm:"not null"`
	// Author name and avatar are snapshotted at creation so the feed
	// never has to join back into users. Later profile edits do not
	// propagate here.
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes" gorm:"foreignKey:PostID"`
	Comments  []Comment `json:"comments" gorm:"foreignKey:PostID"`
	CreatedAt time.Time `json:"date" gorm:"autoCreateTime:nano"`
}

// Like records one user liking one post. The composite unique index is
// what enforces the no-duplicate-likes rule, including under concurrent
// requests.
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	UserID    uuid.UUID `json:"user" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime:nano"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"user" gorm:"type:uuid;not null"`
	Text      string    `json:"text" gorm:"not null"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date" gorm:"autoCreateTime:nano"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
