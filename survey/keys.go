package survey

import (
	"strconv"
	"strings"
)

// Form field and option values are encoded as prefix + decimal id.
// The form renderer depends on this exact format.
const (
	QuestionPrefix = "question_"
	OptionPrefix   = "option_"
)

func FieldKey(questionID int) string {
	return QuestionPrefix + strconv.Itoa(questionID)
}

func OptionKey(optionID int) string {
	return OptionPrefix + strconv.Itoa(optionID)
}

// ParseID extracts the numeric id following the last underscore of a field
// key or option value. Only plain decimal digits are accepted.
func ParseID(key string) (int, bool) {
	suffix := key[strings.LastIndexByte(key, '_')+1:]
	if suffix == "" {
		return 0, false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return id, true
}
