package closenicely

import (
	"io"

	"go.uber.org/zap"
)

type named interface {
	Name() string
}

// OrDebug closes closer, logging a failure at debug level. Files are logged with their name.
func OrDebug(closer io.Closer) {
	fields := []zap.Field{}
	if n, ok := closer.(named); ok {
		fields = append(fields, zap.String("path", n.Name()))
	}
	FuncOrDebug(closer.Close, fields...)
}

func FuncOrDebug(closer func() error, fields ...zap.Field) {
	if err := closer(); err != nil {
		zap.L().Debug("could not close resource", append(fields, zap.Error(err))...)
	}
}
