// Package generator runs displaygen over a set of source files: each file is parsed, its selected types analyzed and
// rendered, and the resulting `_display.go` file written, printed or checked.
package generator

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/alitto/pond"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/klothoplatform/displaygen/pkg/codegen"
	"github.com/klothoplatform/displaygen/pkg/config"
	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	displaygen_io "github.com/klothoplatform/displaygen/pkg/io"
	"github.com/klothoplatform/displaygen/pkg/lang/golang"
	"github.com/klothoplatform/displaygen/pkg/logging"
	"github.com/klothoplatform/displaygen/pkg/set"
	"github.com/klothoplatform/displaygen/pkg/shape"
)

type Options struct {
	Config config.Config
	// Paths are the files and directories to process. Empty means the current directory.
	Paths []string
	// Check compares the generated code with the files on disk instead of writing it.
	Check bool
	// Stdout, when set, receives the generated code instead of the files.
	Stdout io.Writer
}

type Result struct {
	// Outputs are the generated files, in input order.
	Outputs []*displaygen_io.RawFile
	// Written are the paths actually written. Up-to-date files are not rewritten.
	Written []string
	// Stale maps each out-of-date output to its diff, in check mode.
	Stale map[string]string
	Types int64
}

func (r *Result) files() []displaygen_io.File {
	files := make([]displaygen_io.File, len(r.Outputs))
	for i, out := range r.Outputs {
		files[i] = out
	}
	return files
}

// ErrStale is returned in check mode when a generated file differs from the one on disk.
var ErrStale = errors.New("generated files are out of date")

type generator struct {
	cfg config.Config
	// found records every -type name seen in a parsed file.
	found sync.Map
	types *atomic.Int64
}

// Run generates the display methods for every input. Nothing is written unless every input succeeds; failures from
// all inputs are combined, in input order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger(ctx).Named("generate")
	cfg := opts.Config

	// outputs are never inputs, whatever the exclude patterns say
	exclude := append(append([]string(nil), cfg.Exclude...), "*"+cfg.Suffix)
	inputs, err := Inputs(opts.Paths, cfg.Include, exclude)
	if err != nil {
		return nil, err
	}
	log.Sugar().Debugf("processing %d file(s)", len(inputs))

	g := &generator{cfg: cfg, types: atomic.NewInt64(0)}
	outputs := make([]*displaygen_io.RawFile, len(inputs))
	errs := make([]error, len(inputs))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool := pond.New(workers, len(inputs), pond.Strategy(pond.Lazy()), pond.Context(ctx))
	for i := range inputs {
		pool.Submit(func() {
			outputs[i], errs[i] = g.file(ctx, inputs[i])
		})
	}
	pool.StopAndWait()

	errs = append(errs, g.missingTypes())
	if err := diagnostics.Combine(errs...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Types: g.types.Load()}
	for _, out := range outputs {
		if out != nil {
			result.Outputs = append(result.Outputs, out)
		}
	}

	switch {
	case opts.Stdout != nil:
		w := &displaygen_io.CountingWriter{Delegate: opts.Stdout}
		if err := w.WriteFiles(result.files()...); err != nil {
			return nil, errors.Wrap(err, "could not print generated code")
		}
		log.Debug("printed generated code", zap.Int64("bytes", w.BytesWritten), zap.Int("files", w.FilesWritten))

	case opts.Check:
		result.Stale = check(result.Outputs)
		if len(result.Stale) > 0 {
			return result, ErrStale
		}

	default:
		files := result.files()
		log.Debug("writing outputs", zap.Strings("files", logging.FileNames(files)))
		written, err := displaygen_io.OutputTo(files, "")
		sort.Strings(written)
		result.Written = written
		if err != nil {
			return result, err
		}
		log.Debug("wrote outputs", zap.Strings("files", written),
			zap.Int("unchanged", len(files)-len(written)))
	}
	return result, nil
}

// file generates the output for one source file. Returns nil when none of its types are selected.
func (g *generator) file(ctx context.Context, path string) (*displaygen_io.RawFile, error) {
	ctx = logging.ForFile(ctx, path)
	log := logging.GetLogger(ctx).Named("generate")

	src, err := (&displaygen_io.FileRef{FPath: path}).ReadAll()
	if err != nil {
		return nil, err
	}
	f, err := golang.ParseFile(ctx, path, src)
	if err != nil {
		return nil, err
	}

	selected, err := g.selectTypes(f)
	if err != nil || len(selected) == 0 {
		return nil, err
	}

	var fragments []string
	var errs diagnostics.List
	for _, t := range selected {
		d, err := shape.Analyze(t, shape.Options{Trigger: g.cfg.Trigger})
		if err != nil {
			errs.Append(err)
			continue
		}
		tlog := logging.GetLogger(logging.ForType(ctx, t.Name)).Named("generate")
		if ce := tlog.Check(zapcore.DebugLevel, "derived"); ce != nil {
			ce.Write(zap.String("shape", spew.Sdump(d.Shape)))
		}
		fragment, err := codegen.Fragment(d, codegen.Options{Receiver: g.cfg.Receiver})
		if err != nil {
			errs.Append(err)
			continue
		}
		fragments = append(fragments, fragment)
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	imports := f.UsableImports()
	specs := make([]string, len(imports))
	for i, imp := range imports {
		specs[i] = imp.String()
	}
	out := OutputPath(path, g.cfg.Suffix)
	content, err := codegen.File(codegen.Unit{
		Path:            out,
		Package:         f.Package,
		BuildConstraint: f.BuildConstraint,
		Imports:         specs,
		Fragments:       fragments,
	})
	if err != nil {
		return nil, err
	}
	g.types.Add(int64(len(fragments)))
	log.Info("generated", zap.String("output", out), zap.Int("types", len(fragments)))
	return &displaygen_io.RawFile{FPath: out, Content: content}, nil
}

// selectTypes picks the types of f to derive. With an explicit type list, the named types are derived, a variant
// standing for its sealed interface. Without one, every type carrying a template directive and every sealed interface
// with a templated variant is derived. A variant can belong to one derived interface only.
func (g *generator) selectTypes(f *golang.File) ([]*shape.TypeDescription, error) {
	var selected []*shape.TypeDescription
	isSelected := make(map[*shape.TypeDescription]bool)
	sel := func(t *shape.TypeDescription) {
		if !isSelected[t] {
			isSelected[t] = true
			selected = append(selected, t)
		}
	}

	wanted := set.SetOf(g.cfg.Types...)

	for _, t := range f.Types {
		unions := f.UnionsOf(t.Name)
		switch {
		case wanted.Len() > 0:
			if !wanted.Contains(t.Name) {
				continue
			}
			g.found.Store(t.Name, true)
			if len(unions) > 0 && !t.IsSealed() {
				for _, u := range unions {
					sel(u)
				}
				continue
			}
			sel(t)

		case len(unions) > 0:
			// derived through its interface

		case t.Annotations.Has(g.cfg.Trigger):
			sel(t)

		case t.IsSealed():
			for _, v := range t.Variants {
				if v.Annotations.Has(g.cfg.Trigger) {
					sel(t)
					break
				}
			}
		}
	}

	owner := make(map[string]string)
	var errs diagnostics.List
	for _, t := range selected {
		for _, v := range t.Variants {
			if other, ok := owner[v.Name]; ok {
				errs.Append(diagnostics.New(diagnostics.UnsupportedShape, v.Span,
					"%s is a variant of both %s and %s, displaygen can derive only one of them", v.Name, other, t.Name))
				continue
			}
			owner[v.Name] = t.Name
		}
	}
	return selected, errs.ErrOrNil()
}

func (g *generator) missingTypes() error {
	var errs diagnostics.List
	for _, name := range g.cfg.Types {
		if _, ok := g.found.Load(name); !ok {
			errs.Append(diagnostics.New(diagnostics.TypeNotFound, diagnostics.Span{Label: name}, "type %s not found", name))
		}
	}
	return errs.ErrOrNil()
}

// check returns the diff of every output that differs from the file on disk.
func check(outputs []*displaygen_io.RawFile) map[string]string {
	stale := make(map[string]string)
	for _, out := range outputs {
		current, err := os.ReadFile(out.FPath)
		if err != nil && !os.IsNotExist(err) {
			zap.L().Named("generate").Warn("could not read generated file", logging.FileField(out.FPath), zap.Error(err))
		}
		if !bytes.Equal(current, out.Content) {
			stale[out.FPath] = lineDiff(out.FPath, string(current), string(out.Content))
		}
	}
	return stale
}
