package story

import (
	"fmt"

	"github.com/pkg/errors"
)

// Input errors. Front ends prompt the user and write nothing.
var (
	ErrNoMessage    = errors.New("message is required")
	ErrNoBackground = errors.New("background image is required")
)

// GenerateError is a failure while decoding, composing or writing a story.
type GenerateError struct {
	Op   string // "decode", "compose" or "encode"
	Path string
	Err  error
}

func (e *GenerateError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// User-facing texts.
const (
	PromptMessage    = "Por favor, insira o versículo."
	PromptBackground = "Por favor, selecione uma imagem de fundo."
	FailureMessage   = "Não foi possível gerar a imagem. Tente novamente."
)

// UserMessage maps err to the text shown to the user. Input errors become
// prompts; anything else is a generic failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoMessage):
		return PromptMessage
	case errors.Is(err, ErrNoBackground):
		return PromptBackground
	default:
		return FailureMessage
	}
}

// IsInputError reports whether err asks the user for missing input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoMessage) || errors.Is(err, ErrNoBackground)
}
