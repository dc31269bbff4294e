package model

import (
	"encoding/json"
	"time"
)

// ExamTypeClassification groups exams on the listing page:
// past-year, authored, combined, and so on.
// swagger:model ExamTypeClassification
type ExamTypeClassification struct {
	BaseModel
	Slug         string `gorm:"size:50;unique;not null" json:"slug"`
	NameFa       string `gorm:"size:100;not null" json:"nameFa"`
	NameEn       string `gorm:"size:100" json:"nameEn"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	DisplayOrder int    `gorm:"default:0" json:"displayOrder"`
}

func (ExamTypeClassification) TableName() string {
	return "exam_types_classification"
}

// swagger:model Exam
type Exam struct {
	BaseModel
	SpecialtyID              uint         `gorm:"index:idx_exams_hierarchy;not null" json:"specialtyId"`
	Specialty                Specialty    `gorm:"foreignKey:SpecialtyID" json:"-"`
	ExamLevelID              uint         `gorm:"index:idx_exams_hierarchy;not null" json:"examLevelId"`
	ExamLevel                ExamLevel    `gorm:"foreignKey:ExamLevelID" json:"-"`
	SubspecialtyID           *uint        `gorm:"index:idx_exams_hierarchy" json:"subspecialtyId,omitempty"`
	ExamTypeClassificationID uint         `gorm:"index;not null" json:"examTypeClassificationId"`
	ExamTypeClassification   ExamTypeClassification `gorm:"foreignKey:ExamTypeClassificationID" json:"-"`

	Title       string `gorm:"size:300;not null" json:"title"`
	Slug        string `gorm:"size:150;unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	ExamYear       *int       `json:"examYear,omitempty"`
	ExamDate       *time.Time `json:"examDate,omitempty"`
	TotalQuestions int        `gorm:"default:0" json:"totalQuestions"`

	// Minutes; nil means no limit even when IsTimed is set
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	PassingScore    float64 `gorm:"type:decimal(5,2);default:60.00" json:"passingScore"`

	IsComprehensive    bool            `gorm:"default:false" json:"isComprehensive"`
	IsCombined         bool            `gorm:"default:false" json:"isCombined"`
	IsTimed            bool            `gorm:"default:true" json:"isTimed"`
	CombinationFilters json.RawMessage `gorm:"type:json" json:"combinationFilters,omitempty"`

	IsActive    bool `gorm:"default:true" json:"isActive"`
	IsPublished bool `gorm:"default:false;index" json:"isPublished"`

	ExamQuestions []ExamQuestion `gorm:"foreignKey:ExamID" json:"examQuestions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion is the ordered association of a question to an exam.
// QuestionOrder is the presentation sequence and the tie-break for
// next-question selection.
// swagger:model ExamQuestion
type ExamQuestion struct {
	BaseModel
	ExamID     uint     `gorm:"index:idx_exam_questions_pair,unique;not null" json:"examId"`
	QuestionID uint     `gorm:"index:idx_exam_questions_pair,unique;not null" json:"questionId"`
	Question   Question `gorm:"foreignKey:QuestionID" json:"question"`

	QuestionOrder int     `gorm:"not null;index" json:"questionOrder"`
	Points        float64 `gorm:"type:decimal(5,2);default:1.00" json:"points"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}
