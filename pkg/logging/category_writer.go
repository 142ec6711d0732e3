package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// CategoryWriter is a zapcore.Core writing every entry to `<LogRootPath>/<category>.log`, where the category is the
// first segment of the logger name (`golang`, `shape`, `codegen`, `generate`). Unnamed loggers are not written.
type CategoryWriter struct {
	Encoder     zapcore.Encoder
	LogRootPath string
	files       *sync.Map // map[string]*os.File
}

func NewCategoryWriter(enc zapcore.Encoder, logRootPath string) *CategoryWriter {
	return &CategoryWriter{
		Encoder:     enc,
		LogRootPath: logRootPath,
		files:       &sync.Map{},
	}
}

func (c *CategoryWriter) Enabled(lvl zapcore.Level) bool {
	return true
}

func (c *CategoryWriter) With(fields []zapcore.Field) zapcore.Core {
	clone := &CategoryWriter{
		Encoder:     c.Encoder.Clone(),
		LogRootPath: c.LogRootPath,
		files:       c.files,
	}
	for i := range fields {
		fields[i].AddTo(clone.Encoder)
	}
	return clone
}

func (c *CategoryWriter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func category(loggerName string) (categ, rest string) {
	categ, rest, _ = strings.Cut(loggerName, ".")
	categ = strings.TrimSpace(categ)
	categ = strings.ReplaceAll(categ, string(os.PathSeparator), "_")
	return categ, rest
}

// open returns the file for a category, truncating it the first time it is opened by this writer.
func (c *CategoryWriter) open(categ string) (io.Writer, error) {
	if w, ok := c.files.Load(categ); ok {
		return w.(io.Writer), nil
	}
	if err := os.MkdirAll(c.LogRootPath, 0755); err != nil {
		return nil, err
	}
	// no O_TRUNC: another goroutine may be opening the same file
	f, err := os.OpenFile(filepath.Join(c.LogRootPath, categ+".log"), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	w, loaded := c.files.LoadOrStore(categ, f)
	if loaded {
		f.Close()
		return w.(io.Writer), nil
	}
	if err := f.Truncate(0); err != nil {
		return nil, err
	}
	return f, nil
}

func (c *CategoryWriter) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	categ, rest := category(ent.LoggerName)
	if categ == "" {
		return nil
	}
	ent.LoggerName = rest
	w, err := c.open(categ)
	if err != nil {
		return err
	}

	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	if ent.Level > zapcore.ErrorLevel {
		if syncer, ok := w.(interface{ Sync() error }); ok {
			syncer.Sync() //nolint:errcheck
		}
	}
	return nil
}

func (c *CategoryWriter) Sync() error {
	var errs error
	c.files.Range(func(key, value interface{}) bool {
		if syncer, ok := value.(interface{ Sync() error }); ok {
			errs = errors.Join(errs, syncer.Sync())
		}
		return true
	})
	return errs
}
