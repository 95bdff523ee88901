package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var requestTypes = map[string]bool{
	"general":     true,
	"prayer":      true,
	"bible-study": true,
	"testimony":   true,
	"crisis":      true,
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}
	return nil
}

func ValidateRequestType(requestType string) error {
	if !requestTypes[strings.ToLower(requestType)] {
		return errors.New("unknown request type")
	}
	return nil
}

func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(text) > 10000 {
		return errors.New("message is too long (max 10000 characters)")
	}
	return nil
}
