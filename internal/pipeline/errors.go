package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the pipeline can surface. Engine
// errors mean a collaborator cannot run at all; they are distinct from a
// collaborator running and finding nothing, which is never an error.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrOcrEngine      = errors.New("ocr engine unavailable")
	ErrDetectorEngine = errors.New("detector engine unavailable")
	ErrBarcodeEngine  = errors.New("barcode engine unavailable")
	ErrInpaintEngine  = errors.New("inpaint engine unavailable")
)

// StageError wraps a failure with the name of the pipeline stage it occurred
// in. A failed stage aborts the whole run; there is no partial output.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsEngineError reports whether err is caused by an unavailable collaborator.
func IsEngineError(err error) bool {
	return errors.Is(err, ErrOcrEngine) ||
		errors.Is(err, ErrDetectorEngine) ||
		errors.Is(err, ErrBarcodeEngine) ||
		errors.Is(err, ErrInpaintEngine)
}
