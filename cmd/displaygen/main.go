// Command displaygen generates String and Error methods from display templates written as comment directives.
//
// Typical use, inside a package:
//
//	//go:generate displaygen --type=ParseError,Shape
package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	clicommon "github.com/klothoplatform/displaygen/pkg/cli_common"
	"github.com/klothoplatform/displaygen/pkg/config"
	"github.com/klothoplatform/displaygen/pkg/diagnostics"
	"github.com/klothoplatform/displaygen/pkg/generator"
)

var Version = "0.0.0-local"

type generateFlags struct {
	clicommon.CommonConfig

	configPath string
	types      []string
	trigger    string
	receiver   string
	suffix     string
	workers    int
	check      bool
	stdout     bool
}

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs root and prints any failure, including flag and usage errors cobra raises before a command runs.
func execute(root *cobra.Command) error {
	cmd, err := root.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = root
		}
		diagnostics.Fprint(cmd.ErrOrStderr(), err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	var flags generateFlags

	root := &cobra.Command{
		Use:           "displaygen [flags] [files or directories...]",
		Short:         "Generate String and Error methods from display templates",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// paths, not subcommand names
		Args: cobra.ArbitraryArgs,
		RunE: flags.run,
	}
	clicommon.SetupRoot(root, &flags.CommonConfig)

	f := root.Flags()
	f.StringVar(&flags.configPath, "config", "", "Configuration file (default: displaygen.yaml, .yml, .toml or .json in the working directory)")
	f.StringSliceVarP(&flags.types, "type", "t", nil, "Comma-separated list of type names to derive (default: every annotated type)")
	f.StringVar(&flags.trigger, "trigger", "", "Directive name carrying display templates (default \"display\")")
	f.StringVar(&flags.receiver, "receiver", "", "Receiver name of generated methods (default \"e\")")
	f.StringVar(&flags.suffix, "suffix", "", "Suffix replacing `.go` in output file names (default \"_display.go\")")
	f.IntVar(&flags.workers, "workers", 0, "Number of files processed concurrently (default 4)")
	f.BoolVar(&flags.check, "check", false, "Report out-of-date generated files instead of writing them")
	f.BoolVar(&flags.stdout, "stdout", false, "Print generated code instead of writing files")

	root.AddCommand(newDescribeCmd(), newAstCmd())
	return root
}

// config loads the configuration file and applies the flags over it.
func (flags *generateFlags) config() (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flags.configPath, wd)
	if err != nil {
		return cfg, err
	}
	cfg.Merge(config.Config{
		Trigger:  flags.trigger,
		Receiver: flags.receiver,
		Suffix:   flags.suffix,
		Types:    flags.types,
		Workers:  flags.workers,
	})
	return cfg, nil
}

func (flags *generateFlags) run(cmd *cobra.Command, args []string) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}
	opts := generator.Options{
		Config: cfg,
		Paths:  args,
		Check:  flags.check,
	}
	if flags.stdout {
		opts.Stdout = cmd.OutOrStdout()
	}

	result, err := generator.Run(cmd.Context(), opts)
	if result != nil {
		stale := make([]string, 0, len(result.Stale))
		for path := range result.Stale {
			stale = append(stale, path)
		}
		sort.Strings(stale)
		for _, path := range stale {
			zap.S().Named("generate").Warnf("%s is out of date", path)
			cmd.PrintErr(result.Stale[path])
		}
	}
	if err != nil {
		return err
	}
	zap.S().Named("generate").Debugf("derived %d type(s) into %d file(s), %d written",
		result.Types, len(result.Outputs), len(result.Written))
	return nil
}
