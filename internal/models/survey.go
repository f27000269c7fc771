package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Question types supported by the form engine.
const (
	TypeLikert         = "likert"
	TypeMultipleChoice = "multiple_choice"
	TypeText           = "text"
	TypeRanking        = "ranking"
	TypePercentage     = "percentage"
	TypeCheckbox       = "checkbox"
)

// Survey is immutable reference data after creation, except for IsActive
// and Version.
type Survey struct {
	ID          string `gorm:"primaryKey" json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	TargetRole  string `json:"target_role" yaml:"target_role"` // "manager" or "sales"
	Version     int    `json:"version" yaml:"version"`
	IsActive    bool   `json:"is_active" yaml:"is_active"`

	Questions []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty" yaml:"questions"`
}

// ValidationRules constrains answers to a question. All fields optional.
type ValidationRules struct {
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	WordLimit *int     `json:"word_limit,omitempty" yaml:"word_limit,omitempty"`
}

// Question is immutable reference data. Options, ValidationRules and
// AnalysisTags are persisted as JSON text columns and parsed exactly once at
// the repository boundary into the typed fields; nothing downstream sniffs
// raw JSON.
type Question struct {
	ID         string `gorm:"primaryKey" json:"id" yaml:"id"`
	SurveyID   string `gorm:"index" json:"survey_id" yaml:"-"`
	Section    string `json:"section" yaml:"section"`
	Text       string `json:"text" yaml:"text"`
	Type       string `json:"type" yaml:"type"`
	OrderIndex int    `json:"order_index" yaml:"order_index"`
	Required   bool   `json:"required" yaml:"required"`

	OptionsJSON         string `gorm:"column:options" json:"-" yaml:"-"`
	ValidationRulesJSON string `gorm:"column:validation_rules" json:"-" yaml:"-"`
	AnalysisTagsJSON    string `gorm:"column:analysis_tags" json:"-" yaml:"-"`

	Options         []string         `gorm:"-" json:"options" yaml:"options"`
	ValidationRules *ValidationRules `gorm:"-" json:"validation_rules,omitempty" yaml:"validation_rules,omitempty"`
	AnalysisTags    []string         `gorm:"-" json:"analysis_tags" yaml:"analysis_tags"`
}

// HasTag reports whether the question carries the given analysis tag.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.AnalysisTags {
		if t == tag {
			return true
		}
	}
	return false
}

// QuestionPack is the YAML file holding the fixed survey and question
// reference data, seeded into the store at startup.
type QuestionPack struct {
	Surveys []Survey `yaml:"surveys"`
}

// LoadQuestionPack reads and parses the question pack YAML file.
func LoadQuestionPack(path string) (*QuestionPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question pack: %w", err)
	}

	var pack QuestionPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question pack YAML: %w", err)
	}

	for i := range pack.Surveys {
		s := &pack.Surveys[i]
		for j := range s.Questions {
			q := &s.Questions[j]
			q.SurveyID = s.ID
			if q.OrderIndex == 0 {
				q.OrderIndex = j
			}
		}
	}
	return &pack, nil
}
