package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field names shared by every gateway entry.
const (
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldUserID    = "user_id"
	FieldInstance  = "instance"
	fieldStack     = "stack"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	// Instance identifies the process (dyno, pod or host) in every entry.
	Instance  string
	Level     zerolog.Level
	WarnStack bool
	// Format is "json" (default) or "console".
	Format string
	Output io.Writer
}

// Logger wraps zerolog with context-carried fields. A nil *Logger discards
// everything so optional collaborators can hold one without guards.
type Logger struct {
	root      zerolog.Logger
	warnStack bool
}

type scopeKey struct{}

// New builds a logger writing to opts.Output, or stdout.
func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	builder := zerolog.New(writerFor(opts.Format, opts.Output)).With().
		Timestamp().
		Str("service", opts.ServiceName)
	if opts.Instance != "" {
		builder = builder.Str(FieldInstance, opts.Instance)
	}
	return &Logger{
		root:      builder.Logger().Level(level),
		warnStack: opts.WarnStack,
	}
}

func writerFor(format string, out io.Writer) io.Writer {
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return out
}

// Nop returns a logger that writes nowhere.
func Nop() *Logger {
	return &Logger{root: zerolog.Nop()}
}

// ParseLevel maps LOG_LEVEL values to zerolog levels. Unknown or empty values
// mean info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) scoped(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if scoped, ok := ctx.Value(scopeKey{}).(zerolog.Logger); ok {
			return scoped
		}
	}
	return l.root
}

// WithField returns a context whose entries carry key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, l.scoped(ctx).With().Interface(key, value).Logger())
}

// WithFields adds several fields at once, in key order so entries are stable.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	if l == nil || len(fields) == 0 {
		return ctx
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	builder := l.scoped(ctx).With()
	for _, k := range keys {
		builder = builder.Interface(k, fields[k])
	}
	return context.WithValue(ctx, scopeKey{}, builder.Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, FieldRequestID, requestID)
}

func (l *Logger) WithSessionID(ctx context.Context, sessionID string) context.Context {
	return l.WithField(ctx, FieldSessionID, sessionID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, FieldUserID, userID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	scoped := l.scoped(ctx)
	scoped.Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	scoped := l.scoped(ctx)
	scoped.Info().Msg(msg)
}

// Warn logs at warn level, with a stack trace when WarnStack is set.
func (l *Logger) Warn(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	scoped := l.scoped(ctx)
	event := scoped.Warn()
	if l.warnStack {
		event = event.Str(fieldStack, stackTrace())
	}
	event.Msg(msg)
}

// Error always records the stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	if l == nil {
		return
	}
	scoped := l.scoped(ctx)
	scoped.Error().Err(err).Str(fieldStack, stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
