package reasoner

import "go.uber.org/zap"

// newEngineLogger returns l, or a no-op logger if l is nil. Constructors
// throughout this package accept an optional *zap.Logger and fall back to
// this helper so the engine never dereferences a nil logger.
func newEngineLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
