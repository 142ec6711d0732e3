package logging

import (
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/klothoplatform/displaygen/pkg/diagnostics"
)

type fileField struct {
	path string
}

func (field fileField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("path", field.path)
	return nil
}

// FileField tags an entry with the source file it concerns. The console encoder prefixes the message with the path.
func FileField(path string) zap.Field {
	return zap.Object("file", fileField{path: path})
}

type spanField struct {
	span diagnostics.Span
}

func (field spanField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("file", field.span.File)
	enc.AddInt("line", field.span.Line)
	enc.AddInt("column", field.span.Column)
	if field.span.Label != "" {
		enc.AddString("label", field.span.Label)
	}
	return nil
}

// SpanField tags an entry with a source location. The console encoder prefixes the message with `file:line:col`.
func SpanField(span diagnostics.Span) zap.Field {
	return zap.Object("span", spanField{span: span})
}

func TypeField(name string) zap.Field {
	return zap.String("type", name)
}

type astNodeField struct {
	n *sitter.Node
}

func (field astNodeField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	start := field.n.StartPoint()
	end := field.n.EndPoint()

	enc.AddString("type", field.n.Type())
	enc.AddUint32("start-row", start.Row)
	enc.AddUint32("start-column", start.Column)
	enc.AddUint32("end-row", end.Row)
	enc.AddUint32("end-column", end.Column)
	return nil
}

func NodeField(n *sitter.Node) zap.Field {
	return zap.Object("node", astNodeField{n: n})
}

// DescribeFields is intended for unit testing expected log lines.
//
// This returns a map whose keys are the field keys, and whose values are descriptions of the object fields of this
// package. Don't try to parse these.
//
// If any of the expected fields are missing, their values will be text saying that the field is missing.
func DescribeFields(fields []zapcore.Field, expected ...string) map[string]string {
	all := map[string]string{}

	for _, expect := range expected {
		all[expect] = "!!(MISSING)!!"
	}

	bufPool := buffer.NewPool()
	encoder := bufferEncoder{b: bufPool.Get()}
	defer encoder.b.Free()

	for _, field := range fields {
		encoder.b.Reset()
		marshaler, ok := field.Interface.(zapcore.ObjectMarshaler)
		if !ok {
			continue
		}
		if err := encoder.AppendObject(marshaler); err != nil {
			all[field.Key] = "!!(UNMARSHALING ERROR)"
		} else {
			all[field.Key] = encoder.b.String()
		}
	}
	return all
}
