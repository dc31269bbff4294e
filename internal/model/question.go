package model

import "encoding/json"

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	Descriptive    QuestionType = "descriptive"
)

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

// swagger:model Question
type Question struct {
	BaseModel

	// Hierarchical path
	SpecialtyID    uint  `gorm:"index:idx_questions_hierarchy;not null" json:"specialtyId"`
	ExamLevelID    uint  `gorm:"index:idx_questions_hierarchy;not null" json:"examLevelId"`
	SubspecialtyID *uint `gorm:"index:idx_questions_hierarchy" json:"subspecialtyId,omitempty"`
	CourseID       *uint `gorm:"index:idx_questions_placement" json:"courseId,omitempty"`
	ChapterID      *uint `gorm:"index:idx_questions_placement" json:"chapterId,omitempty"`
	TopicID        *uint `gorm:"index:idx_questions_placement" json:"topicId,omitempty"`

	// Content
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	QuestionHTML string `gorm:"type:text" json:"questionHtml,omitempty"`
	ImageURL     string `gorm:"size:255" json:"imageUrl,omitempty"`
	HasImage     bool   `gorm:"default:false" json:"hasImage"`

	QuestionType QuestionType       `gorm:"size:20;default:'multiple_choice'" json:"questionType"`
	Difficulty   QuestionDifficulty `gorm:"size:10;default:'medium';index" json:"difficulty"`
	Tags         json.RawMessage    `gorm:"type:json" json:"tags,omitempty"`

	// Source
	Source     string `gorm:"size:300" json:"source,omitempty"`
	SourceYear *int   `json:"sourceYear,omitempty"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	Options     []QuestionOption     `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	Explanation *QuestionExplanation `gorm:"foreignKey:QuestionID" json:"explanation,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID uint `gorm:"index:idx_question_options_number,unique;not null" json:"questionId"`

	OptionNumber int    `gorm:"index:idx_question_options_number,unique;not null" json:"optionNumber"`
	OptionText   string `gorm:"type:text;not null" json:"optionText"`
	OptionHTML   string `gorm:"type:text" json:"optionHtml,omitempty"`
	IsCorrect    bool   `gorm:"default:false" json:"-"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// swagger:model QuestionExplanation
type QuestionExplanation struct {
	BaseModel
	QuestionID uint `gorm:"uniqueIndex;not null" json:"questionId"`

	ExplanationText  string `gorm:"type:text;not null" json:"explanationText"`
	ExplanationHTML  string `gorm:"type:text" json:"explanationHtml,omitempty"`
	WrongOptionsNote string `gorm:"type:text" json:"wrongOptionsNote,omitempty"`
	References       string `gorm:"type:text" json:"references,omitempty"`
	ClinicalNotes    string `gorm:"type:text" json:"clinicalNotes,omitempty"`
	ExamTips         string `gorm:"type:text" json:"examTips,omitempty"`
}

func (QuestionExplanation) TableName() string {
	return "question_explanations"
}
