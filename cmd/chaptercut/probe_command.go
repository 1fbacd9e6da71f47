package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"chaptercut/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "probe <file>",
		Short:        "Show the chapter markers and stream facts of a file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve source %q: %w", args[0], err)
			}

			prober := probe.NewCLI(cfg.FFprobeBinary())
			desc, err := prober.Streams(cmd.Context(), source)
			if err != nil {
				return err
			}
			markers, err := prober.Chapters(cmd.Context(), source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:        %s\n", source)
			fmt.Fprintf(out, "duration:    %.3fs\n", desc.Duration)
			fmt.Fprintf(out, "frame rate:  %s (%.3f fps)\n", desc.FrameRate.String(), desc.FrameRate.Float())
			if desc.HasAudio {
				fmt.Fprintf(out, "audio:       %d Hz %s\n", desc.SampleRate, desc.ChannelLayout)
			} else {
				fmt.Fprintln(out, "audio:       none")
			}

			if len(markers) == 0 {
				fmt.Fprintln(out, "no chapter markers")
				return nil
			}

			tbl := newReportTable("#", "Title", "Start (s)").numeric(1, 3)
			for i, marker := range markers {
				tbl.addRow(strconv.Itoa(i), marker.Title, fmt.Sprintf("%.3f", marker.StartTime))
			}
			fmt.Fprintln(out, tbl.render())
			return nil
		},
	}
}
