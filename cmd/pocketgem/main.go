package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "1.0.0"

var (
	configFile string
	debugLog   bool
)

func main() {
	rootCommand := newRootCommand()
	if err := rootCommand.ExecuteContext(context.Background()); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "pocketgem",
		Short:         "Ask Gemini questions from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	addGlobalFlags(rootCommand.PersistentFlags(), &debugMode)

	rootCommand.AddCommand(
		newAskCommand(),
		newChatCommand(),
		newServeCommand(),
		newConfigCommand(),
	)
	return rootCommand
}

func addGlobalFlags(flags *pflag.FlagSet, debugMode *bool) {
	flags.StringVar(&configFile, "config", "", "config file path")
	flags.BoolVar(debugMode, "debug", false, "Enable debug mode")
	flags.BoolVar(&debugLog, "debug-log", false, "Write requests and responses to the diagnostic log")
}

// setupLogger configures the default logger based on debug mode.
// Logs go to stderr so that answers on stdout stay clean.
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}
