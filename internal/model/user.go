package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Email     string `gorm:"size:255;unique;not null" json:"email"`
	Password  string `gorm:"size:128;not null" json:"-"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Phone     string `gorm:"size:20" json:"phone,omitempty"`
	Avatar    string `gorm:"size:255" json:"avatar,omitempty"`

	// Medical specialization preferences
	PrimarySpecialtyID    *uint `gorm:"index" json:"primarySpecialtyId,omitempty"`
	PrimaryExamLevelID    *uint `gorm:"index" json:"primaryExamLevelId,omitempty"`
	PrimarySubspecialtyID *uint `gorm:"index" json:"primarySubspecialtyId,omitempty"`

	IsEmailVerified bool `gorm:"default:false" json:"isEmailVerified"`
	IsActive        bool `gorm:"default:true" json:"isActive"`
	IsStaff         bool `gorm:"default:false" json:"isStaff"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
