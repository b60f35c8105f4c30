package export_bookings

import (
	"context"
	"io"

	"github.com/m04kA/SMC-VenueCRM/internal/export"
)

type Exporter interface {
	WriteXLSX(ctx context.Context, w io.Writer, req export.Request) (*export.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
