package survey_test

import (
	"testing"

	"github.com/mbolis/museum-survey/model"
	"github.com/mbolis/museum-survey/survey"
	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	answers := survey.Compile(sampleValues(), sampleQuestions(), 99)

	assert.Equal(t, []model.AnswerRequest{
		{FulfillmentID: 99, QuestionID: 1, Value: "hello", SelectedOptionIDs: []int{}},
		{FulfillmentID: 99, QuestionID: 2, Value: "", SelectedOptionIDs: []int{11}},
		{FulfillmentID: 99, QuestionID: 3, Value: "", SelectedOptionIDs: []int{20, 21}},
	}, answers)
}

func TestCompileDropsUnknownKeys(t *testing.T) {
	raw := map[string]any{
		"question_1":  "kept",
		"question_77": "no such question",
		"question_":   "no id",
		"question_x":  "bad id",
		"csrf_token":  "abc",
		"comments":    "free field",
	}

	answers := survey.Compile(raw, sampleQuestions(), 1)

	assert.Equal(t, []model.AnswerRequest{
		{FulfillmentID: 1, QuestionID: 1, Value: "kept", SelectedOptionIDs: []int{}},
	}, answers)
}

func TestCompileSelectRoundTrip(t *testing.T) {
	for _, opt := range []int{10, 11} {
		raw := map[string]any{survey.FieldKey(2): survey.OptionKey(opt)}
		answers := survey.Compile(raw, sampleQuestions(), 1)
		if assert.Len(t, answers, 1) {
			assert.Equal(t, []int{opt}, answers[0].SelectedOptionIDs)
		}
	}
}

func TestCompileSelectUnparsableIsLenient(t *testing.T) {
	raw := map[string]any{"question_2": "option_"}

	answers := survey.Compile(raw, sampleQuestions(), 1)

	assert.Equal(t, []model.AnswerRequest{
		{FulfillmentID: 1, QuestionID: 2, SelectedOptionIDs: []int{}},
	}, answers)
}

func TestCompileMultiSelectDropsBadElements(t *testing.T) {
	raw := map[string]any{
		"question_3": []any{"option_20", "garbage", 17, "option_21"},
	}

	answers := survey.Compile(raw, sampleQuestions(), 1)

	if assert.Len(t, answers, 1) {
		assert.Equal(t, []int{20, 21}, answers[0].SelectedOptionIDs)
	}
}

func TestCompileMultiSelectEmpty(t *testing.T) {
	raw := map[string]any{"question_3": []string{}}

	answers := survey.Compile(raw, sampleQuestions(), 1)

	if assert.Len(t, answers, 1) {
		assert.Empty(t, answers[0].SelectedOptionIDs)
		assert.Empty(t, answers[0].Value)
	}
}

func TestCompileWrongValueShape(t *testing.T) {
	raw := map[string]any{
		"question_1": []string{"not", "text"},
		"question_2": 11,
		"question_3": "option_20",
	}

	assert.Equal(t, []model.AnswerRequest{
		{FulfillmentID: 1, QuestionID: 2, SelectedOptionIDs: []int{}},
	}, survey.Compile(raw, sampleQuestions(), 1))
}

func TestCompileUntouchedSelect(t *testing.T) {
	raw := map[string]any{"question_2": nil}

	assert.Equal(t, []model.AnswerRequest{
		{FulfillmentID: 1, QuestionID: 2, SelectedOptionIDs: []int{}},
	}, survey.Compile(raw, sampleQuestions(), 1))
}

func TestCompileEmpty(t *testing.T) {
	assert.Empty(t, survey.Compile(nil, sampleQuestions(), 1))
	assert.Empty(t, survey.Compile(sampleValues(), nil, 1))
}
