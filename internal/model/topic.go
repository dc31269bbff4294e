package model

// Topic is the base unit for study mode.
// swagger:model Topic
type Topic struct {
	BaseModel
	ChapterID uint `gorm:"index:idx_topics_chapter_slug,unique;not null" json:"chapterId"`

	Slug           string `gorm:"size:100;index:idx_topics_chapter_slug,unique;not null" json:"slug"`
	NameFa         string `gorm:"size:300;not null" json:"nameFa"`
	NameEn         string `gorm:"size:300" json:"nameEn"`
	SummaryContent string `gorm:"type:text" json:"summaryContent,omitempty"`

	// Minutes
	EstimatedStudyTime     *int `json:"estimatedStudyTime,omitempty"`
	StandardQuestionsCount int  `gorm:"default:15" json:"standardQuestionsCount"`

	DisplayOrder int  `gorm:"default:0" json:"displayOrder"`
	IsActive     bool `gorm:"default:true" json:"isActive"`
}

func (Topic) TableName() string {
	return "topics"
}
