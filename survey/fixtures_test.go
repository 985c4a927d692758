package survey_test

import "github.com/mbolis/museum-survey/model"

func sampleQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Type: model.Open, Text: "What did you like?"},
		{ID: 2, Type: model.Select, Options: []model.Option{{ID: 10, Label: "Yes"}, {ID: 11, Label: "No"}}},
		{ID: 3, Type: model.MultiSelect, Options: []model.Option{{ID: 20, Label: "Paintings"}, {ID: 21, Label: "Sculptures"}}},
	}
}

func sampleSurvey() model.Survey {
	return model.Survey{ID: 5, Name: "Visitor feedback", Questions: sampleQuestions()}
}

func sampleValues() map[string]any {
	return map[string]any{
		"question_1": "hello",
		"question_2": "option_11",
		"question_3": []string{"option_20", "option_21"},
	}
}
