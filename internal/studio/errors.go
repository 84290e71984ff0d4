package studio

import (
	"errors"

	"brand-visual-studio/internal/lifecycle"
)

var (
	ErrMissingTheme     = errors.New("story theme is required")
	ErrMissingCharacter = errors.New("character description is required")
	ErrInvalidAspect    = errors.New("invalid aspect ratio")
	ErrEmptyStory       = errors.New("story expansion returned no scenes")
)

const (
	GenericErrorMessage  = "Something went wrong while generating images. Please try again."
	MissingThemeMessage  = "Please enter a story theme."
	MissingCharMessage   = "Please describe the character."
	InvalidAspectMessage = "Please choose square, wide or tall."
	BusyMessage          = "A generation is already running. Please wait for it to finish."
)

// UserMessage is the only text an end user sees for err. Validation problems
// get their own message; everything else collapses into the generic one.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingTheme):
		return MissingThemeMessage
	case errors.Is(err, ErrMissingCharacter):
		return MissingCharMessage
	case errors.Is(err, ErrInvalidAspect):
		return InvalidAspectMessage
	case errors.Is(err, lifecycle.ErrBusy):
		return BusyMessage
	default:
		return GenericErrorMessage
	}
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingTheme) ||
		errors.Is(err, ErrMissingCharacter) ||
		errors.Is(err, ErrInvalidAspect)
}
