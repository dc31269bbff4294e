package model

// swagger:model Chapter
type Chapter struct {
	BaseModel
	CourseID uint `gorm:"index:idx_chapters_course_slug,unique;not null" json:"courseId"`

	Slug          string `gorm:"size:100;index:idx_chapters_course_slug,unique;not null" json:"slug"`
	NameFa        string `gorm:"size:300;not null" json:"nameFa"`
	NameEn        string `gorm:"size:300" json:"nameEn"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	ChapterNumber *int   `json:"chapterNumber,omitempty"`

	// Minutes
	EstimatedStudyTime *int `json:"estimatedStudyTime,omitempty"`

	DisplayOrder int  `gorm:"default:0" json:"displayOrder"`
	IsActive     bool `gorm:"default:true" json:"isActive"`

	Topics []Topic `gorm:"foreignKey:ChapterID" json:"topics,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}
