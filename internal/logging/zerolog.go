package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to Logger. Key–value args are attached as
// event fields.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Debug(), msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Info(), msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Warn(), msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Error(), msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(redactArgs(args)).Logger()}
}

func (z *ZerologLogger) emit(ctx context.Context, e *zerolog.Event, msg string, args []any) {
	if len(args) > 0 {
		e = e.Fields(redactArgs(args))
	}
	e.Ctx(ctx).Msg(msg)
}
