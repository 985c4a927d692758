package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyUnmarshalLegacyKeys(t *testing.T) {
	var sv Survey
	err := json.Unmarshal([]byte(`{
		"id": 1,
		"name": "Legacy",
		"questions_data": [
			{"id": 2, "type": "SELECT", "options_data": [{"id": 3, "label": "Yes"}]}
		]
	}`), &sv)

	require.NoError(t, err)
	assert.Equal(t, Survey{
		ID:   1,
		Name: "Legacy",
		Questions: []Question{
			{ID: 2, Type: Select, Options: []Option{{ID: 3, Label: "Yes"}}},
		},
	}, sv)
}

func TestSurveyUnmarshalPrefersCurrentKeys(t *testing.T) {
	var sv Survey
	err := json.Unmarshal([]byte(`{
		"questions": [{"id": 1, "type": "OPEN", "options": []}],
		"questions_data": [{"id": 9, "type": "OPEN"}]
	}`), &sv)

	require.NoError(t, err)
	require.Len(t, sv.Questions, 1)
	assert.Equal(t, 1, sv.Questions[0].ID)
	assert.Equal(t, []Option{}, sv.Questions[0].Options)
}

func TestAnswerRequestMarshal(t *testing.T) {
	data, err := json.Marshal(AnswerRequest{FulfillmentID: 4, QuestionID: 1, Value: "text"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"fulfillment":4,"question":1,"value":"text","options_data":[]}`, string(data))
}

func TestQuestionLookups(t *testing.T) {
	sv := Survey{Questions: []Question{
		{ID: 1, Type: Open},
		{ID: 2, Type: MultiSelect, Options: []Option{{ID: 7, Label: "a"}}},
	}}

	q, ok := sv.Question(2)
	require.True(t, ok)
	assert.True(t, q.HasOption(7))
	assert.False(t, q.HasOption(8))
	_, ok = sv.Question(3)
	assert.False(t, ok)
}

func TestQuestionType(t *testing.T) {
	assert.True(t, Open.Valid())
	assert.False(t, QuestionType("RATING").Valid())
	assert.False(t, Open.HasOptions())
	assert.True(t, Select.HasOptions())
	assert.True(t, MultiSelect.HasOptions())
}

func TestAPIErrorRecognized(t *testing.T) {
	var missing *APIError
	assert.False(t, missing.Recognized())
	assert.False(t, (&APIError{}).Recognized())
	assert.True(t, (&APIError{Detail: "Not found."}).Recognized())
}
