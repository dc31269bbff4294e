package model

type CourseDifficulty string

const (
	DifficultyBeginner     CourseDifficulty = "beginner"
	DifficultyIntermediate CourseDifficulty = "intermediate"
	DifficultyAdvanced     CourseDifficulty = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	SpecialtyID    uint  `gorm:"index:idx_courses_hierarchy;not null" json:"specialtyId"`
	ExamLevelID    uint  `gorm:"index:idx_courses_hierarchy;not null" json:"examLevelId"`
	SubspecialtyID *uint `gorm:"index:idx_courses_hierarchy" json:"subspecialtyId,omitempty"`

	Slug          string `gorm:"size:100;unique;not null" json:"slug"`
	NameFa        string `gorm:"size:200;not null" json:"nameFa"`
	NameEn        string `gorm:"size:200" json:"nameEn"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	MainReference string `gorm:"size:300" json:"mainReference,omitempty"`
	Author        string `gorm:"size:200" json:"author,omitempty"`
	YearPublished *int   `json:"yearPublished,omitempty"`

	DifficultyLevel CourseDifficulty `gorm:"size:20;default:'intermediate'" json:"difficultyLevel"`

	DisplayOrder int  `gorm:"default:0" json:"displayOrder"`
	IsActive     bool `gorm:"default:true" json:"isActive"`

	Chapters []Chapter `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
