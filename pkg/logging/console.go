package logging

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/pborman/ansi"
	"go.uber.org/atomic"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	pool = buffer.NewPool()

	levelColours = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel:  color.New(color.FgMagenta),
		zapcore.InfoLevel:   color.New(color.FgHiGreen),
		zapcore.WarnLevel:   color.New(color.FgHiYellow, color.Bold),
		zapcore.ErrorLevel:  color.New(color.FgHiRed, color.Bold),
		zapcore.DPanicLevel: color.New(color.FgHiRed, color.Bold),
		zapcore.PanicLevel:  color.New(color.FgHiRed, color.Bold),
		zapcore.FatalLevel:  color.New(color.FgHiRed, color.Bold),
	}

	levelWidth int
	levelPad   string
	levelFmt   string
)

func init() {
	for l := range levelColours {
		ll := len(l.String())
		if levelWidth < ll {
			levelWidth = ll
		}
	}
	levelPad = strings.Repeat(" ", levelWidth)
	levelFmt = fmt.Sprintf("%%%ds", levelWidth)
}

// ConsoleEncoder writes compiler-style lines: the location of the entry (from [SpanField] or [FileField]) followed by
// its message, with the remaining fields right-aligned to the terminal width.
type ConsoleEncoder struct {
	Verbose bool

	File        fileField
	Span        spanField
	HadWarnings *atomic.Bool
	HadErrors   *atomic.Bool

	*bufferEncoder
}

func NewConsoleEncoder(verbose bool, hadWarnings *atomic.Bool, hadErrors *atomic.Bool) *ConsoleEncoder {
	return &ConsoleEncoder{
		Verbose:       verbose,
		HadWarnings:   hadWarnings,
		HadErrors:     hadErrors,
		bufferEncoder: &bufferEncoder{b: pool.Get()},
	}
}

func (enc *ConsoleEncoder) Clone() zapcore.Encoder {
	ne := &ConsoleEncoder{
		bufferEncoder: &bufferEncoder{b: pool.Get()},
		Verbose:       enc.Verbose,
		HadWarnings:   enc.HadWarnings,
		HadErrors:     enc.HadErrors,
		File:          enc.File,
		Span:          enc.Span,
	}
	_, _ = ne.bufferEncoder.b.Write(enc.b.Bytes())

	return ne
}

func (enc *ConsoleEncoder) AddObject(key string, marshaler zapcore.ObjectMarshaler) error {
	switch obj := marshaler.(type) {
	case fileField:
		enc.File = obj

	case spanField:
		enc.Span = obj

	default:
		return enc.bufferEncoder.AddObject(key, marshaler)
	}
	return nil
}

func (enc *ConsoleEncoder) levelPadding() string {
	if enc.Verbose {
		return levelPad
	}
	return ""
}

func (enc *ConsoleEncoder) location(file fileField, span spanField) string {
	switch {
	case span.span.File != "":
		return span.span.String()
	case file.path != "":
		return file.path
	}
	return ""
}

func (enc *ConsoleEncoder) EncodeEntry(ent zapcore.Entry, fieldList []zapcore.Field) (*buffer.Buffer, error) {
	line := pool.Get()

	if ent.Level >= zapcore.WarnLevel {
		enc.HadWarnings.Store(true)
	}
	if ent.Level >= zapcore.ErrorLevel {
		enc.HadErrors.Store(true)
	}

	var (
		file     = enc.File
		span     = enc.Span
		errField error

		indentWriter = &IndentedWriter{Indentation: enc.levelPadding(), Writer: line}
	)

	fields := pool.Get()
	_, _ = fields.Write(enc.b.Bytes())
	defer fields.Free()
	fieldCount := 0
	for _, f := range fieldList {
		switch v := f.Interface.(type) {
		case fileField:
			file = v
			continue

		case spanField:
			span = v
			continue

		case error:
			errField = v
			continue
		}
		if fieldCount > 0 {
			fields.AppendString(", ")
		}
		fieldCount++
		f.AddTo(&bufferEncoder{b: fields})
	}

	writeFields := func() {
		if fields.Len() == 0 {
			return
		}
		size := TermSize()
		padding := size.Width - printableWidth(fields.String()) + 1
		lineLength := printableWidth(line.String()) + 1
		if padding <= lineLength {
			line.AppendByte('\n')
		} else {
			padding -= lineLength
		}
		if padding < 0 {
			padding = 0
		}
		line.AppendString(strings.Repeat(" ", padding))
		line.AppendString(fields.String())
	}

	colour := levelColours[ent.Level]
	if colour == nil {
		colour = levelColours[zapcore.PanicLevel]
	}

	if enc.Verbose {
		colour.Fprintf(line, levelFmt, ent.Level.String())
		line.AppendByte(' ')
		if ent.LoggerName != "" {
			line.AppendString(ent.LoggerName)
			line.AppendString(": ")
		}
	}

	if loc := enc.location(file, span); loc != "" {
		colour.Fprintf(line, "%s: %s", loc, ent.Message)
	} else {
		colour.Fprint(line, ent.Message)
	}
	writeFields()
	line.AppendByte('\n')

	if errField != nil {
		indentWriter.Indentation += colour.Sprint("| ")
		errFmt := "%v"
		if enc.Verbose {
			errFmt = "%+v"
		}
		errText := fmt.Sprintf("ERROR: "+errFmt, errField)
		for _, errLine := range strings.Split(errText, "\n") {
			fmt.Fprintf(&IndentedWriter{
				Indentation: indentWriter.Indentation,
				Writer:      line,
				Colour:      colour,
			}, "%s\n", errLine)
		}
	}
	return line, nil
}

func printableWidth(s string) (c int) {
	if s2, err := ansi.Strip([]byte(s)); err == nil {
		s = string(s2)
	}
	for _, r := range s {
		switch {
		case unicode.IsPrint(r):
			c++

		case r == '\t':
			c += 4 // assume 4-width tabs
		}
	}
	return
}
