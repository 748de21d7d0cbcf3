package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pocketgem/internal/cli"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively. Type 'quit' to exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg)
			defer func() {
				_ = client.Close()
			}()

			chatCLI := cli.NewChatCLI(client)
			return chatCLI.Run(cmd.Context(), chatCLI)
		},
	}
}
