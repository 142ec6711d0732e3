package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klothoplatform/displaygen/pkg/lang/golang"
	"github.com/klothoplatform/displaygen/pkg/shape"
)

type (
	describedFile struct {
		Package         string          `yaml:"package"`
		BuildConstraint string          `yaml:"build,omitempty"`
		Types           []describedType `yaml:"types"`
	}

	describedType struct {
		Name        string             `yaml:"name"`
		Kind        string             `yaml:"kind"`
		Line        int                `yaml:"line"`
		Description string             `yaml:"description,omitempty"`
		TypeParams  string             `yaml:"type_params,omitempty"`
		Directives  []string           `yaml:"directives,omitempty"`
		Fields      []string           `yaml:"fields,omitempty"`
		Marker      string             `yaml:"marker,omitempty"`
		Variants    []describedVariant `yaml:"variants,omitempty"`
	}

	describedVariant struct {
		Case       string   `yaml:"case"`
		Shape      string   `yaml:"shape"`
		Directives []string `yaml:"directives,omitempty"`
	}
)

// newDescribeCmd prints what displaygen sees in a Go file, for debugging directives that are not picked up.
func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file.go>",
		Short: "Print the type declarations and directives found in a Go file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "could not read %s", args[0])
			}
			f, err := golang.ParseFile(cmd.Context(), args[0], src)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			return enc.Encode(describe(f))
		},
	}
}

func describe(f *golang.File) describedFile {
	out := describedFile{Package: f.Package, BuildConstraint: f.BuildConstraint}
	for _, t := range f.Types {
		dt := describedType{
			Name:        t.Name,
			Kind:        t.Kind.String(),
			Line:        t.Span.Line,
			Description: t.Description,
			TypeParams:  t.TypeParams.Declaration(),
			Directives:  t.Annotations.Texts(),
			Marker:      t.Marker,
		}
		for _, field := range t.Fields {
			dt.Fields = append(dt.Fields, describeField(field))
		}
		for _, v := range t.Variants {
			dt.Variants = append(dt.Variants, describedVariant{
				Case:       v.CaseType(),
				Shape:      v.Shape.String(),
				Directives: v.Annotations.Texts(),
			})
		}
		out.Types = append(out.Types, dt)
	}
	return out
}

func describeField(f shape.Field) string {
	if f.Embedded {
		return f.Type + " (embedded)"
	}
	return f.Name + " " + f.Type
}
