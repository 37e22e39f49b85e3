package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTestConnectionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Check that the WordPress media library is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.wordpressClient()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			result := client.TestConnection(cmd.Context())
			logger.Debug("connection test finished",
				"endpoint", client.Endpoint(), "status", result.StatusCode, "elapsed", result.Elapsed)

			out := cmd.OutOrStdout()
			switch {
			case result.Err != nil:
				return fmt.Errorf("connection failed: %w", result.Err)
			case !result.OK:
				fmt.Fprintf(out, "Connection failed: HTTP %d\n", result.StatusCode)
				if result.Body != "" {
					fmt.Fprintf(out, "Response: %s\n", result.Body)
				}
				return fmt.Errorf("media endpoint %s returned HTTP %d", client.Endpoint(), result.StatusCode)
			default:
				fmt.Fprintf(out, "Connection successful: %s (HTTP %d, %s)\n",
					client.Endpoint(), result.StatusCode, result.Elapsed.Round(time.Millisecond))
				return nil
			}
		},
	}
}
