package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/termfx/scry/core"
)

// Exit codes: 2 argument errors, 3 analysis errors, 124 timeout.
const (
	exitArgs     = 2
	exitAnalysis = 3
	exitTimeout  = 124
)

var verbose bool

func main() {
	// A local .env can point at alternate fd/rg binaries or an output
	// directory; absence is not an error.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "scry",
		Short:         "Structural code analysis and search over tree-sitter grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().String("project-root", "", "project root bounding all search paths")
	_ = viper.BindPFlag("project_root", root.PersistentFlags().Lookup("project-root"))

	viper.SetConfigName("scry")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/scry")
	viper.SetEnvPrefix("SCRY")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("loaded config", "file", viper.ConfigFileUsed())
	}

	root.AddCommand(
		newAnalyzeCmd(),
		newQueryCmd(),
		newSearchCmd(),
		newFindCmd(),
		newLanguagesCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case isKind[*core.InvalidArgumentsError](err),
		isKind[*core.UnknownLanguageError](err),
		isKind[*core.QueryNotFoundError](err),
		isKind[*core.PathOutsideRootError](err):
		return exitArgs
	case errorsIs(err, core.ErrCommandTimeout):
		return exitTimeout
	case errorsIs(err, core.ErrInvalidQueryRequest):
		return exitArgs
	default:
		return exitAnalysis
	}
}
