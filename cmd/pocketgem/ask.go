package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pocketgem/internal/inference"
)

func newAskCommand() *cobra.Command {
	var strictExit bool
	command := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask Gemini one question and print the answer",
		Long: `Ask Gemini one question and print the answer.

Failures are printed in place of the answer, starting with "Error:" or
"API Error:", and the command still exits with 0 unless --strict-exit is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg)
			defer func() {
				_ = client.Close()
			}()

			answer, err := client.Answer(cmd.Context(), strings.Join(args, " "))
			if _, printErr := fmt.Fprintln(cmd.OutOrStdout(), inference.Display(answer, err)); printErr != nil {
				return fmt.Errorf("failed to print the answer > %w", printErr)
			}
			if strictExit && err != nil {
				return fmt.Errorf("client.Answer() > %w", err)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&strictExit, "strict-exit", false, "Exit with a non-zero code when the answer is an error")

	return command
}
