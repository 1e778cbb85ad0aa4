package models

import "time"

const DefaultDeveloperRole = "Full stack developer"

// Developer is a directory entry stored in PostgreSQL. Owner holds the
// hex id of the user the entry was created for.
type Developer struct {
	ID          uint                 `json:"_id" gorm:"primaryKey"`
	Owner       string               `json:"owner" gorm:"size:24;uniqueIndex;not null"`
	Name        string               `json:"name" gorm:"not null"`
	Role        string               `json:"role" gorm:"not null"`
	PhotoURL    string               `json:"photoUrl" gorm:"not null"`
	SocialLinks DeveloperSocialLinks `json:"socialLinks" gorm:"embedded;embeddedPrefix:social_"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type DeveloperSocialLinks struct {
	GitHub    string `json:"github,omitempty" gorm:"column:github"`
	LinkedIn  string `json:"linkedin,omitempty" gorm:"column:linkedin"`
	Instagram string `json:"instagram,omitempty" gorm:"column:instagram"`
}

// DeveloperForm is bound from the multipart form of the create and update
// endpoints. Nil fields were not sent.
type DeveloperForm struct {
	Name      *string `form:"name" validate:"omitempty,min=1,max=80"`
	Role      *string `form:"role" validate:"omitempty,max=80"`
	GitHub    *string `form:"github" validate:"omitempty,url"`
	LinkedIn  *string `form:"linkedin" validate:"omitempty,url"`
	Instagram *string `form:"instagram" validate:"omitempty,url"`
}

// Apply copies the sent fields onto d.
func (f *DeveloperForm) Apply(d *Developer) {
	if f.Name != nil {
		d.Name = *f.Name
	}
	if f.Role != nil {
		d.Role = *f.Role
	}
	if f.GitHub != nil {
		d.SocialLinks.GitHub = *f.GitHub
	}
	if f.LinkedIn != nil {
		d.SocialLinks.LinkedIn = *f.LinkedIn
	}
	if f.Instagram != nil {
		d.SocialLinks.Instagram = *f.Instagram
	}
}
