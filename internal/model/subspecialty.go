package model

// swagger:model Subspecialty
type Subspecialty struct {
	BaseModel
	SpecialtyID uint      `gorm:"index:idx_subspecialties_key,unique;not null" json:"specialtyId"`
	Specialty   Specialty `gorm:"foreignKey:SpecialtyID" json:"-"`
	ExamLevelID uint      `gorm:"index:idx_subspecialties_key,unique;not null" json:"examLevelId"`
	ExamLevel   ExamLevel `gorm:"foreignKey:ExamLevelID" json:"-"`

	Slug        string `gorm:"size:50;index:idx_subspecialties_key,unique;not null" json:"slug"`
	NameFa      string `gorm:"size:100;not null" json:"nameFa"`
	NameEn      string `gorm:"size:100" json:"nameEn"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	DisplayOrder int  `gorm:"default:0" json:"displayOrder"`
	IsActive     bool `gorm:"default:true" json:"isActive"`
}

func (Subspecialty) TableName() string {
	return "subspecialties"
}
