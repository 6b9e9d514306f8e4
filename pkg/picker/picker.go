// Package picker turns "choose a background" into a synchronous call that
// returns a path or ErrCancelled.
package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xob0t/storygen/pkg/staging"
)

// ErrCancelled means the user made no choice.
var ErrCancelled = errors.New("no file selected")

// Picker chooses one file.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// Func adapts a function to Picker.
type Func func(ctx context.Context) (string, error)

// Pick calls f.
func (f Func) Pick(ctx context.Context) (string, error) { return f(ctx) }

// Static picks a fixed path. An empty path is a cancellation.
func Static(path string) Picker {
	return Func(func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		path := strings.TrimSpace(path)
		if path == "" {
			return "", ErrCancelled
		}
		return path, nil
	})
}

// Staged wraps a Picker and copies each pick into a staging directory.
type Staged struct {
	Picker Picker
	Stager *staging.Stager
}

// Pick returns the staged copy of the underlying pick.
func (s Staged) Pick(ctx context.Context) (string, error) {
	path, err := s.Picker.Pick(ctx)
	if err != nil {
		return "", err
	}
	staged, err := s.Stager.CopyFile(path)
	if err != nil {
		return "", fmt.Errorf("stage background: %w", err)
	}
	return staged, nil
}
