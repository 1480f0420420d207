package pipeline

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestOptionsValidateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("odd strengths in range are accepted", prop.ForAll(
		func(n int) bool {
			opts := DefaultOptions()
			opts.BlurStrength = 2*n + 1
			return opts.Validate() == nil
		},
		gen.IntRange(1, 75),
	))

	properties.Property("even strengths are always rejected", prop.ForAll(
		func(n int) bool {
			opts := DefaultOptions()
			opts.BlurStrength = 2 * n
			err := opts.Validate()
			return err != nil && errors.Is(err, ErrInvalidConfig)
		},
		gen.IntRange(-100, 100),
	))

	properties.Property("strengths outside the range are rejected", prop.ForAll(
		func(n int) bool {
			opts := DefaultOptions()
			opts.BlurStrength = n
			err := opts.Validate()
			return err != nil && errors.Is(err, ErrInvalidConfig)
		},
		gen.OneGenOf(gen.IntRange(-200, MinBlurStrength-1), gen.IntRange(MaxBlurStrength+1, 500)),
	))

	properties.TestingRun(t)
}
