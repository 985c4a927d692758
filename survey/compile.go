package survey

import (
	"sort"

	"github.com/mbolis/museum-survey/model"
)

// Compile turns raw form values into one AnswerRequest per resolvable field.
//
// Keys that do not parse, or that name a question outside questions, are
// skipped. A SELECT value that does not parse, whatever its type, yields an
// answer with no selected option; unparsable MULTISELECT elements are
// dropped one by one.
// The result is ordered by question id.
func Compile(raw map[string]any, questions []model.Question, fulfillmentID int) []model.AnswerRequest {
	byID := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answers := make([]model.AnswerRequest, 0, len(raw))
	for key, value := range raw {
		id, ok := ParseID(key)
		if !ok {
			continue
		}
		q, ok := byID[id]
		if !ok {
			continue
		}

		answer := model.AnswerRequest{
			FulfillmentID:     fulfillmentID,
			QuestionID:        id,
			SelectedOptionIDs: []int{},
		}

		switch q.Type {
		case model.Open:
			s, ok := value.(string)
			if !ok {
				continue
			}
			answer.Value = s

		case model.Select:
			// a missing or non-string value is an unparsable option too
			s, _ := value.(string)
			if opt, ok := ParseID(s); ok {
				answer.SelectedOptionIDs = append(answer.SelectedOptionIDs, opt)
			}

		case model.MultiSelect:
			items, ok := stringItems(value)
			if !ok {
				continue
			}
			for _, item := range items {
				if opt, ok := ParseID(item); ok {
					answer.SelectedOptionIDs = append(answer.SelectedOptionIDs, opt)
				}
			}

		default:
			continue
		}

		answers = append(answers, answer)
	}

	sort.Slice(answers, func(i, j int) bool {
		return answers[i].QuestionID < answers[j].QuestionID
	})
	return answers
}

// stringItems accepts both typed slices and the []any a JSON decoder yields.
// Non-string elements come back as "" so they fail to parse individually.
func stringItems(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		items := make([]string, len(v))
		for i, e := range v {
			items[i], _ = e.(string)
		}
		return items, true
	}
	return nil, false
}
