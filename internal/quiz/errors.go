package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned by operations that need a loaded question set.
	ErrEmpty = errors.New("no question set loaded")

	// ErrCompleted is returned by Submit and Advance past the last question.
	ErrCompleted = errors.New("question set completed")

	// ErrNotImageTagging is returned by CycleAlternative and
	// CycleAlternativeAt for keys that name no image tagging question.
	ErrNotImageTagging = errors.New("current question is not image tagging")

	// ErrNoQuestions is returned when loading an empty question list.
	ErrNoQuestions = errors.New("question set has no questions")
)

// RestoreError reports a snapshot that could not be applied. The
// controller is unchanged when it is returned.
type RestoreError struct {
	Ref string
	Err error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore progress for %q: %v", e.Ref, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}
