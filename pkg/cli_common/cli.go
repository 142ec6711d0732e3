package clicommon

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/klothoplatform/displaygen/pkg/closenicely"
	"github.com/klothoplatform/displaygen/pkg/logging"
)

type CommonConfig struct {
	verbose   LevelledFlag
	jsonLog   bool
	color     string
	logsDir   string
	profileTo string

	// HadErrors is set once an error has been logged.
	HadErrors *atomic.Bool
}

// DefaultLevels keep the chattiest modules quiet unless verbose logging is requested twice (`-vv`).
var DefaultLevels = map[string]zapcore.Level{
	"lang.go": zap.InfoLevel,
	"codegen": zap.InfoLevel,
}

func setupProfiling(commonCfg *CommonConfig) func() {
	if commonCfg.profileTo != "" {
		err := os.MkdirAll(filepath.Dir(commonCfg.profileTo), 0755)
		if err != nil {
			panic(fmt.Errorf("failed to create profile directory: %w", err))
		}
		profileF, err := os.OpenFile(commonCfg.profileTo, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open profile file: %w", err))
		}
		err = pprof.StartCPUProfile(profileF)
		if err != nil {
			panic(fmt.Errorf("failed to start profile: %w", err))
		}
		return func() {
			pprof.StopCPUProfile()
			closenicely.OrDebug(profileF)
		}
	}
	return func() {}
}

// LogOpts translates the common flags into logging options.
func (commonCfg *CommonConfig) LogOpts() logging.LogOpts {
	if commonCfg.HadErrors == nil {
		commonCfg.HadErrors = atomic.NewBool(false)
	}
	logOpts := logging.LogOpts{
		Verbose:         commonCfg.verbose.AtLeast(1),
		Color:           commonCfg.color,
		CategoryLogsDir: commonCfg.logsDir,
		HadErrors:       commonCfg.HadErrors,
	}
	if !commonCfg.verbose.AtLeast(2) {
		logOpts.DefaultLevels = DefaultLevels
	}
	if commonCfg.jsonLog {
		logOpts.Encoding = "json"
	}
	return logOpts
}

func SetupRoot(root *cobra.Command, commonCfg *CommonConfig) {
	flags := root.PersistentFlags()
	flags.VarP(&commonCfg.verbose, "verbose", "v", "Enable verbose logging, repeat for more detail")
	flags.Lookup("verbose").NoOptDefVal = "true"
	flags.BoolVar(&commonCfg.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.color, "color", "auto", "Colour output: auto, always or never")
	flags.StringVar(&commonCfg.logsDir, "logs-dir", "", "Directory to write per-module logs to")
	flags.StringVar(&commonCfg.profileTo, "profiling", "", "Profile to file")

	profileClose := func() {}

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		zap.ReplaceGlobals(commonCfg.LogOpts().NewLogger())

		profileClose = setupProfiling(commonCfg)
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck

		profileClose()
	}
}
