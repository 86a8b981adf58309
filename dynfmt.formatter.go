package dynfmt

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Formatter wraps Format with logging, tracing, and dictionaries loaded by
// name from a DictionaryStorage. A Formatter is immutable and safe for
// concurrent use.
type Formatter struct {
	storage DictionaryStorage
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New creates a new Formatter with the given options.
func New(opts ...Option) (*Formatter, error) {
	config := defaultFormatterConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := config.tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	logger.Debug(LogMsgFormatterCreated, zap.Bool(LogFieldStorage, config.storage != nil))

	return &Formatter{
		storage: config.storage,
		logger:  logger,
		tracer:  tracer,
	}, nil
}

// MustNew creates a new Formatter and panics if there's an error.
func MustNew(opts ...Option) *Formatter {
	f, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Storage returns the configured dictionary storage, or nil.
func (f *Formatter) Storage() DictionaryStorage {
	return f.storage
}

// Format formats pattern against dictionary. The result is identical to the
// package-level Format; failures are additionally logged at warn level and
// recorded on the span.
func (f *Formatter) Format(ctx context.Context, pattern string, dictionary map[string]string) (string, error) {
	_, span := f.tracer.Start(ctx, SpanNameFormat,
		trace.WithAttributes(
			attribute.Int(AttrPatternLength, len(pattern)),
			attribute.Int(AttrDictionarySize, len(dictionary)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	start := time.Now()
	f.logger.Debug(LogMsgFormatStart,
		zap.Int(LogFieldPatternLength, len(pattern)),
		zap.Int(LogFieldEntries, len(dictionary)))

	out, err := Format(pattern, dictionary)
	if err != nil {
		f.logFormatError(err)
		endSpan(span, err)
		return "", err
	}

	f.logger.Debug(LogMsgFormatComplete,
		zap.Int(LogFieldOutputLength, len(out)),
		zap.Duration(LogFieldDuration, time.Since(start)))
	endSpan(span, nil)
	return out, nil
}

// FormatNamed loads the named dictionaries from storage, merges them in
// order and formats pattern against the result. Later dictionaries override
// keys of earlier ones.
func (f *Formatter) FormatNamed(ctx context.Context, pattern string, names ...string) (string, error) {
	dictionary, err := f.LoadDictionaries(ctx, names...)
	if err != nil {
		return "", err
	}
	return f.Format(ctx, pattern, dictionary)
}

// LoadDictionaries fetches the named dictionaries from storage and merges
// them left to right into a new map.
func (f *Formatter) LoadDictionaries(ctx context.Context, names ...string) (map[string]string, error) {
	if f.storage == nil {
		return nil, NewNoStorageError()
	}
	if len(names) == 0 {
		return nil, NewNoDictionaryNameError()
	}

	ctx, span := f.tracer.Start(ctx, SpanNameLoad,
		trace.WithAttributes(attribute.String(AttrDictionaryNames, strings.Join(names, ","))),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	merged := make(map[string]string)
	for _, name := range names {
		dict, err := f.storage.Get(ctx, name)
		if err != nil {
			f.logger.Warn(LogMsgDictionaryMissing,
				zap.String(LogFieldDictionary, name),
				zap.Error(err))
			err = NewLoadDictionaryError(name, err)
			endSpan(span, err)
			return nil, err
		}
		for k, v := range dict.Entries {
			merged[k] = v
		}
		f.logger.Debug(LogMsgDictionaryLoaded,
			zap.String(LogFieldDictionary, name),
			zap.Int(LogFieldEntries, len(dict.Entries)))
	}

	span.SetAttributes(attribute.Int(AttrDictionarySize, len(merged)))
	endSpan(span, nil)
	return merged, nil
}

// Keys returns the distinct placeholder keys of pattern.
func (f *Formatter) Keys(pattern string) ([]string, error) {
	return Keys(pattern)
}

// Validate checks the brace structure of pattern.
func (f *Formatter) Validate(pattern string) error {
	return Validate(pattern)
}

func (f *Formatter) logFormatError(err error) {
	fe, ok := AsFormatError(err)
	if !ok {
		f.logger.Warn(LogMsgFormatFailed, zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.String(LogFieldErrorKind, fe.Kind.String()),
		zap.Int(LogFieldPosition, fe.Position),
	}
	if fe.Kind == ErrorKindKey {
		fields = append(fields, zap.String(LogFieldKey, fe.Key))
	}
	f.logger.Warn(LogMsgFormatFailed, fields...)
}

// endSpan completes a span, recording err and its position when it is a FormatError.
func endSpan(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		span.End()
		return
	}

	if fe, ok := AsFormatError(err); ok {
		span.SetAttributes(
			attribute.String(AttrErrorKind, fe.Kind.String()),
			attribute.Int(AttrErrorPosition, fe.Position),
		)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}
