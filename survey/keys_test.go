package survey_test

import (
	"testing"

	"github.com/mbolis/museum-survey/survey"
	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		id   int
		isOk bool
	}{
		{"question_42", 42, true},
		{"option_7", 7, true},
		{"some_prefixed_field_3", 3, true},
		{"12", 12, true},
		{"question_", 0, false},
		{"question_abc", 0, false},
		{"question_-4", 0, false},
		{"question_4x", 0, false},
		{"question_ 4", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, ok := survey.ParseID(tt.in)
			assert.Equal(t, tt.isOk, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestKeysRoundTrip(t *testing.T) {
	assert.Equal(t, "question_42", survey.FieldKey(42))
	assert.Equal(t, "option_7", survey.OptionKey(7))

	for _, id := range []int{1, 9, 10, 12345} {
		got, ok := survey.ParseID(survey.FieldKey(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)

		got, ok = survey.ParseID(survey.OptionKey(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
}
