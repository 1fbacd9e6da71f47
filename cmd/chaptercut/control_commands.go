package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chaptercut/internal/deps"
	"chaptercut/internal/ipc"
)

func newPauseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "pause",
		Short:        "Pause the active run after the current chapter is interrupted",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Pause()
				if err != nil {
					return err
				}
				if !resp.Paused {
					return fmt.Errorf("pause failed: %s", resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "resume",
		Short:        "Resume a paused run",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Resume()
				if err != nil {
					return err
				}
				if !resp.Resumed {
					return fmt.Errorf("resume failed: %s", resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "stop",
		Short:        "Stop the active run, keeping finished clips",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if !resp.Stopped {
					return fmt.Errorf("stop failed: %s", resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Show the state of the active run",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			err := ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "state:     %s\n", resp.State)
				if resp.RunID != "" {
					fmt.Fprintf(out, "run:       %s\n", resp.RunID)
				}
				if resp.StartedAt != "" {
					fmt.Fprintf(out, "started:   %s\n", resp.StartedAt)
				}
				if resp.CurrentChapter != "" {
					fmt.Fprintf(out, "chapter:   %s\n", resp.CurrentChapter)
				}
				if resp.Total > 0 {
					fmt.Fprintf(out, "progress:  %d done, %d failed of %d\n", resp.Done, resp.Failed, resp.Total)
				}
				return nil
			})
			if err != nil {
				fmt.Fprintf(out, "state:     not running (%v)\n", err)
			}

			if cfg, cfgErr := ctx.ensureConfig(); cfgErr == nil {
				for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
					detail := "ok"
					if !status.Available {
						detail = status.Detail
					}
					fmt.Fprintf(out, "%-10s %s\n", status.Name+":", detail)
				}
			}
			return nil
		},
	}
}
