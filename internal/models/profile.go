package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Social holds the profile's social media links, flattened into the
// profiles table.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Profile struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID    `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	User           *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status" gorm:"not null"`
	Skills         []string     `json:"skills" gorm:"serializer:json"`
	Bio            string       `json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `json:"social" gorm:"embedded;embeddedPrefix:social_"`
	Experience     []Experience `json:"experience" gorm:"foreignKey:ProfileID"`
	Education      []Education  `json:"education" gorm:"foreignKey:ProfileID"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProfileID   uuid.UUID  `json:"-" gorm:"type:uuid;index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Company     string     `json:"company" gorm:"not null"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from" gorm:"not null"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current" gorm:"default:false"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime:nano"`
}

type Education struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProfileID    uuid.UUID  `json:"-" gorm:"type:uuid;index;not null"`
	School       string     `json:"school" gorm:"not null"`
	Degree       string     `json:"degree" gorm:"not null"`
	FieldOfStudy string     `json:"fieldofstudy" gorm:"not null"`
	From         time.Time  `json:"from" gorm:"not null"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current" gorm:"default:false"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime:nano"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Education) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
