package model

import (
	"time"

	"github.com/goccy/go-json"
)

type QuestionType string

const (
	Open        QuestionType = "OPEN"
	Select      QuestionType = "SELECT"
	MultiSelect QuestionType = "MULTISELECT"
)

func (t QuestionType) Valid() bool {
	switch t {
	case Open, Select, MultiSelect:
		return true
	}
	return false
}

// HasOptions reports whether answers to this type pick from Question.Options.
func (t QuestionType) HasOptions() bool {
	return t == Select || t == MultiSelect
}

type Option struct {
	ID    int    `json:"id"`
	Label string `json:"label" validate:"required"`
}

type Question struct {
	ID      int          `json:"id"`
	Type    QuestionType `json:"type" validate:"required,oneof=OPEN SELECT MULTISELECT"`
	Text    string       `json:"text,omitempty"`
	Options []Option     `json:"options" validate:"dive"`
}

// UnmarshalJSON also accepts the "options_data" key used by older backends.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	var wire struct {
		plain
		OptionsData []Option `json:"options_data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*q = Question(wire.plain)
	if q.Options == nil {
		q.Options = wire.OptionsData
	}
	return nil
}

func (q Question) HasOption(id int) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

type Survey struct {
	ID        int        `json:"id,omitempty"`
	Name      string     `json:"name" validate:"required"`
	Active    bool       `json:"active,omitempty"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
}

// UnmarshalJSON also accepts the "questions_data" key used by older backends.
func (s *Survey) UnmarshalJSON(data []byte) error {
	type plain Survey
	var wire struct {
		plain
		QuestionsData []Question `json:"questions_data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = Survey(wire.plain)
	if s.Questions == nil {
		s.Questions = wire.QuestionsData
	}
	return nil
}

func (s Survey) Question(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Fulfillment scopes the answers of one submission attempt.
type Fulfillment struct {
	ID int `json:"id"`
}

type FulfillmentRequest struct {
	Survey int `json:"survey" validate:"required,gt=0"`
}

// AnswerRequest is the per-question payload sent during submission.
// OPEN questions fill Value, SELECT and MULTISELECT fill SelectedOptionIDs.
type AnswerRequest struct {
	FulfillmentID     int    `json:"fulfillment" validate:"required,gt=0"`
	QuestionID        int    `json:"question" validate:"required,gt=0"`
	Value             string `json:"value"`
	SelectedOptionIDs []int  `json:"options_data"`
}

func (a AnswerRequest) MarshalJSON() ([]byte, error) {
	type plain AnswerRequest
	p := plain(a)
	if p.SelectedOptionIDs == nil {
		p.SelectedOptionIDs = []int{}
	}
	return json.Marshal(p)
}

// APIError is the error payload the backend attaches to failed requests.
type APIError struct {
	Detail string `json:"detail"`
}

func (e *APIError) Recognized() bool {
	return e != nil && e.Detail != ""
}

type SurveyInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type FulfillmentRecord struct {
	ID      int           `json:"id"`
	Time    time.Time     `json:"time"`
	Answers []AnswerValue `json:"answers"`
}

type AnswerValue struct {
	QuestionID int    `json:"question"`
	Value      string `json:"value,omitempty"`
	Options    []int  `json:"options_data,omitempty"`
}
