package model

// swagger:model ExamLevel
type ExamLevel struct {
	BaseModel
	SpecialtyID uint      `gorm:"index:idx_exam_levels_specialty_slug,unique;not null" json:"specialtyId"`
	Specialty   Specialty `gorm:"foreignKey:SpecialtyID" json:"-"`

	Slug        string `gorm:"size:50;index:idx_exam_levels_specialty_slug,unique;not null" json:"slug"`
	NameFa      string `gorm:"size:100;not null" json:"nameFa"`
	NameEn      string `gorm:"size:100" json:"nameEn"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Icon        string `gorm:"size:50" json:"icon"`

	// TRUE only for board promotion levels
	RequiresSubspecialty bool `gorm:"default:false" json:"requiresSubspecialty"`

	DisplayOrder int  `gorm:"default:0" json:"displayOrder"`
	IsActive     bool `gorm:"default:true" json:"isActive"`
}

func (ExamLevel) TableName() string {
	return "exam_levels"
}
