package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEventSubmission validates a manual event submission.
func ValidateEventSubmission(sub *EventSubmission) error {
	if strings.TrimSpace(sub.Title) == "" {
		return ValidationError{Field: "title", Message: "Title is required"}
	}

	if err := validateDate(sub.Date); err != nil {
		return err
	}

	if sub.Link != "" {
		if err := validateLink(sub.Link); err != nil {
			return err
		}
	}

	if sub.Playlist != "" && !strings.HasPrefix(sub.Playlist, "@") {
		return ValidationError{Field: "playlist", Message: "Playlist handle must start with '@'"}
	}

	return nil
}

// ValidateEventUpdate validates a dashboard edit.
func ValidateEventUpdate(update *EventUpdate) error {
	if strings.TrimSpace(update.Title) == "" {
		return ValidationError{Field: "title", Message: "Title is required"}
	}

	if err := validateDate(update.Date); err != nil {
		return err
	}

	if update.Link != "" {
		return validateLink(update.Link)
	}
	return nil
}

func validateDate(date string) error {
	if date == "" {
		return ValidationError{Field: "date", Message: "Date is required"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ValidationError{Field: "date", Message: "Date must be YYYY-MM-DD"}
	}
	return nil
}

func validateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{Field: "link", Message: "Link must be a valid http(s) URL"}
	}
	return nil
}
