package logger

import "go.uber.org/zap"

// New builds the process-wide SugaredLogger. Dev environments get the
// human-readable console encoder.
func New(dev bool) *zap.SugaredLogger {
	if dev {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}
