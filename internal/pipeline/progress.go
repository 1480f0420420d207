package pipeline

// ProgressReporter receives completion events during batch processing.
// Implementations must be safe for concurrent OnProgress calls.
type ProgressReporter interface {
	OnStart(total int)
	OnProgress(done, total int)
	OnComplete()
}

// NoopProgress ignores all progress events.
type NoopProgress struct{}

func (NoopProgress) OnStart(total int)          {}
func (NoopProgress) OnProgress(done, total int) {}
func (NoopProgress) OnComplete()                {}
