// Package prompt asks the user questions on behalf of the pgenie commands.
//
// Questions go through a Prompter, which only knows how to read one line of
// input. Ask, Select and Confirm layer defaults, validation and re-prompting on
// top, so the same logic drives the interactive Terminal and the Scripted
// prompter used for tests and piped input.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrAborted is returned when the user cancels a prompt (ctrl+c or EOF).
var ErrAborted = errors.New("prompt aborted")

type (
	// Prompter reads single lines of user input.
	Prompter interface {
		// ReadLine shows label and returns the raw line entered. def is offered
		// as an editable suggestion where the implementation supports it.
		ReadLine(label, def string) (string, error)

		// Reject tells the user why the previous answer was not accepted.
		Reject(err error)
	}

	// Question is a free-form question.
	Question struct {
		Label string

		// Default is used when the answer is empty.
		Default string

		// Validate, when set, is called with the trimmed answer. Returning a
		// *ValidationError re-asks the question; any other error is returned.
		Validate func(string) error
	}

	// ValidationError rejects an answer without aborting the prompt.
	ValidationError struct {
		Message string
	}
)

func (e *ValidationError) Error() string { return e.Message }

// NonEmpty returns a validator that rejects blank answers with msg.
func NonEmpty(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &ValidationError{Message: msg}
		}

		return nil
	}
}

// Ask asks q until it receives an acceptable answer.
//
// Example:
//
//	desc, err := prompt.Ask(p, prompt.Question{
//		Label:    "Describe your app",
//		Validate: prompt.NonEmpty("Please provide a description"),
//	})
func Ask(p Prompter, q Question) (string, error) {
	for {
		answer, err := p.ReadLine(q.Label, q.Default)
		if err != nil {
			return "", err
		}

		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = q.Default
		}

		if q.Validate == nil {
			return answer, nil
		}

		err = q.Validate(answer)
		if err == nil {
			return answer, nil
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			return "", err
		}

		p.Reject(verr)
	}
}

// Select asks the user to pick one of choices, either by name or by its
// 1-based position, and returns the chosen name. An empty answer picks def.
func Select(p Prompter, label string, choices []string, def string) (string, error) {
	if len(choices) == 0 {
		return "", errors.Errorf("no choices for %q", label)
	}

	full := fmt.Sprintf("%s (%s)", label, strings.Join(choices, "/"))

	answer, err := Ask(p, Question{
		Label:   full,
		Default: def,
		Validate: func(answer string) error {
			if _, ok := pick(choices, answer); ok {
				return nil
			}

			return &ValidationError{Message: fmt.Sprintf("Please choose one of: %s", strings.Join(choices, ", "))}
		},
	})
	if err != nil {
		return "", err
	}

	choice, _ := pick(choices, answer)
	return choice, nil
}

// Confirm asks a yes/no question. An empty answer returns def.
func Confirm(p Prompter, label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	var result bool
	_, err := Ask(p, Question{
		Label: fmt.Sprintf("%s (%s)", label, hint),
		Validate: func(answer string) error {
			switch strings.ToLower(answer) {
			case "":
				result = def
			case "y", "yes":
				result = true
			case "n", "no":
				result = false
			default:
				return &ValidationError{Message: "Please answer yes or no"}
			}

			return nil
		},
	})

	return result, err
}

func pick(choices []string, answer string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}

		return "", false
	}

	for _, c := range choices {
		if strings.EqualFold(c, answer) {
			return c, true
		}
	}

	return "", false
}
