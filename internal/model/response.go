package model

import "time"

// QuestionType defines the type of form question
type QuestionType string

const (
	QuestionTypeShortText    QuestionType = "short_text"
	QuestionTypeParagraph    QuestionType = "paragraph"
	QuestionTypeNumber       QuestionType = "number"
	QuestionTypePhone        QuestionType = "phone"
	QuestionTypeCheckbox     QuestionType = "checkbox"
	QuestionTypeDropdown     QuestionType = "dropdown"
	QuestionTypeDate         QuestionType = "date"
	QuestionTypeDateTime     QuestionType = "datetime"
	QuestionTypeDateRange    QuestionType = "date_range"
	QuestionTypeFromDatabase QuestionType = "from_database"
)

// Question is one question inside a form design
type Question struct {
	ID      string       `json:"id" bson:"id"`
	Type    QuestionType `json:"type" bson:"type"`
	Label   string       `json:"label,omitempty" bson:"label,omitempty"`
	Options []string     `json:"options,omitempty" bson:"options,omitempty"` // checkbox/dropdown choices
}

// FormSection groups ordered questions
type FormSection struct {
	ID        string     `json:"id" bson:"id"`
	Title     string     `json:"title,omitempty" bson:"title,omitempty"`
	Questions []Question `json:"questions" bson:"questions"`
}

// FormDesign describes one form's question tree, supplied by the form store
type FormDesign struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	Sections  []FormSection `json:"sections" bson:"sections"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Question finds a question by id across all sections
func (d *FormDesign) Question(id string) *Question {
	if d == nil {
		return nil
	}
	for si := range d.Sections {
		for qi := range d.Sections[si].Questions {
			if d.Sections[si].Questions[qi].ID == id {
				return &d.Sections[si].Questions[qi]
			}
		}
	}
	return nil
}

// ProcessedResponse is a single form submission normalized for the pipeline.
// Answers is the canonical questionId -> value map, built once at load time
// from whichever raw answer shape the store delivered.
type ProcessedResponse struct {
	ID                 string         `json:"id" bson:"_id,omitempty"`
	FormID             string         `json:"formId" bson:"formId"`
	Answers            map[string]any `json:"answers" bson:"answers"`
	CreatedAt          time.Time      `json:"createdAt" bson:"createdAt"`
	ProcessID          string         `json:"processId,omitempty" bson:"processId,omitempty"`
	ApplicantProcessID string         `json:"applicantProcessId,omitempty" bson:"applicantProcessId,omitempty"`
	UserID             string         `json:"userId,omitempty" bson:"userId,omitempty"`
}
