package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// ConsoleAppender will create human readable lines from log events and write them to the desired
// output sync. E.g: stdout or a file.
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates a new appender that outputs to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates a new appender that outputs to the input writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// Write outputs the log entry to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	const maxLength = 10
	toPrint := make([]string, 0, maxLength)
	toPrint = append(toPrint, entry.Time.Format(DefaultTimeFormatStr))

	toPrint = append(toPrint, strings.ToUpper(entry.Level.String()))
	toPrint = append(toPrint, entry.LoggerName)
	if entry.Caller.Defined {
		toPrint = append(toPrint, callerToString(&entry.Caller))
	}
	toPrint = append(toPrint, entry.Message)
	if len(fields) == 0 {
		fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
		return nil
	}

	// Use zap's json encoder which will encode our slice of fields in-order. As opposed to the
	// random iteration order of a map. Call it with an empty Entry object such that only the fields
	// become "map-ified".
	jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		// Log what we have and return the error.
		fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
		return err
	}
	toPrint = append(toPrint, string(buf.Bytes()))
	fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
	return nil
}

// Sync is a no-op.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// callerToString returns "<package>/<file>:<line>" for a caller.
func callerToString(caller *zapcore.EntryCaller) string {
	return caller.TrimmedPath()
}

// appenderCore lets a plain Appender take part in a zap core tee.
type appenderCore struct {
	appender Appender
	level    AtomicLevel
	fields   []zapcore.Field
}

func (ac *appenderCore) Enabled(level zapcore.Level) bool {
	return level >= ac.level.Get().AsZap()
}

func (ac *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	combined := make([]zapcore.Field, 0, len(ac.fields)+len(fields))
	combined = append(combined, ac.fields...)
	combined = append(combined, fields...)
	return &appenderCore{appender: ac.appender, level: ac.level, fields: combined}
}

func (ac *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ac.Enabled(entry.Level) {
		return checked.AddCore(entry, ac)
	}
	return checked
}

func (ac *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if len(ac.fields) == 0 {
		return ac.appender.Write(entry, fields)
	}
	combined := make([]zapcore.Field, 0, len(ac.fields)+len(fields))
	combined = append(combined, ac.fields...)
	combined = append(combined, fields...)
	return ac.appender.Write(entry, combined)
}

func (ac *appenderCore) Sync() error {
	return ac.appender.Sync()
}
