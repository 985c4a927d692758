package survey

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mbolis/museum-survey/model"
)

// MessageResolver looks up a translated message, falling back to defaultText.
type MessageResolver func(key, defaultText string, params ...any) string

const (
	RequiredMessageKey     = "form.validation.required"
	RequiredMessageDefault = "This field is required."
)

var validate = validator.New()

// InitialValues returns the empty form state for the given questions,
// keyed by FieldKey.
func InitialValues(questions []model.Question) map[string]any {
	values := make(map[string]any, len(questions))
	for _, q := range questions {
		if q.Type == model.MultiSelect {
			values[FieldKey(q.ID)] = []string{}
		} else {
			values[FieldKey(q.ID)] = ""
		}
	}
	return values
}

// Rule is a single required-field check. Rules do not depend on each other.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (r Rule) Check(value any) error {
	if value == nil || validate.Var(value, r.Tag) != nil {
		return &ValidationError{Field: r.Field, Message: r.Message}
	}
	return nil
}

type Rules map[string]Rule

// ValidationRules builds one required rule per question. A nil resolve
// keeps the default messages.
func ValidationRules(questions []model.Question, resolve MessageResolver) Rules {
	msg := RequiredMessageDefault
	if resolve != nil {
		msg = resolve(RequiredMessageKey, RequiredMessageDefault)
	}

	rules := make(Rules, len(questions))
	for _, q := range questions {
		tag := "required"
		if q.Type == model.MultiSelect {
			tag = "required,min=1"
		}
		key := FieldKey(q.ID)
		rules[key] = Rule{Field: key, Tag: tag, Message: msg}
	}
	return rules
}

// Validate runs every rule against values and returns the failing fields
// with their messages. Missing fields fail their rule.
func (rules Rules) Validate(values map[string]any) map[string]string {
	failed := map[string]string{}
	for key, rule := range rules {
		if err := rule.Check(values[key]); err != nil {
			failed[key] = rule.Message
		}
	}
	return failed
}
