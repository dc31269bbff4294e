package model

// swagger:model Specialty
type Specialty struct {
	BaseModel
	Slug         string `gorm:"size:50;unique;not null" json:"slug"`
	NameFa       string `gorm:"size:100;not null" json:"nameFa"`
	NameEn       string `gorm:"size:100" json:"nameEn"`
	Icon         string `gorm:"size:50" json:"icon"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	DisplayOrder int    `gorm:"default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`
}

func (Specialty) TableName() string {
	return "specialties"
}
