package extensions

import (
	"context"
	"time"

	"go.uber.org/zap"

	etp "github.com/pumped-fn/etp-sizing"
)

// LoggingExtension logs every operation at debug level and every pass at
// info level.
type LoggingExtension struct {
	etp.BaseExtension
	logger *zap.Logger
}

// NewLoggingExtension creates a logging extension. A nil logger logs nothing.
func NewLoggingExtension(logger *zap.Logger) *LoggingExtension {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingExtension{
		BaseExtension: etp.NewBaseExtension("logging"),
		logger:        logger,
	}
}

func (e *LoggingExtension) Order() int {
	return 10
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func() (any, error), op *etp.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	if err != nil {
		// reported once through OnError
		return result, err
	}

	if ce := e.logger.Check(zap.DebugLevel, string(op.Kind)); ce != nil {
		ce.Write(
			zap.String("group", etp.NameOf(op.Cell)),
			zap.Bool("written", op.Written),
			zap.Duration("took", time.Since(start)),
		)
	}
	return result, nil
}

func (e *LoggingExtension) OnError(err error, op *etp.Operation, scope *etp.Scope) {
	e.logger.Error("operation failed",
		zap.String("op", string(op.Kind)),
		zap.String("group", etp.NameOf(op.Cell)),
		zap.Error(err),
	)
}

func (e *LoggingExtension) OnPass(scope *etp.Scope, pass etp.PassRecord) {
	e.logger.Info("pass settled",
		zap.Uint64("pass", pass.ID),
		zap.String("trigger", pass.Trigger),
		zap.Strings("written", pass.Written),
		zap.Int("skipped", pass.Skipped),
		zap.Duration("took", pass.Duration),
		zap.Uint64("version", scope.Writes()),
	)
}

func (e *LoggingExtension) Dispose(scope *etp.Scope) error {
	// stderr/stdout sinks report EINVAL on Sync; that is not a disposal failure
	_ = e.logger.Sync()
	return nil
}
