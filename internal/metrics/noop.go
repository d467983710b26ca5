package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncTokenRevoked is a no-op.
func (n *NoopRecorder) IncTokenRevoked() {}

// IncTaskCreated is a no-op.
func (n *NoopRecorder) IncTaskCreated() {}

// IncTaskUpdated is a no-op.
func (n *NoopRecorder) IncTaskUpdated() {}

// IncTaskDeleted is a no-op.
func (n *NoopRecorder) IncTaskDeleted() {}

// IncTaskToggled is a no-op.
func (n *NoopRecorder) IncTaskToggled() {}
