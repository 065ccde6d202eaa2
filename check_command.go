package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charvideo/video"
)

func newCheckCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the external video tools are available",
		Args: func(cmd *cobra.Command, args []string) error {
			return usage(cobra.NoArgs(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			tools := video.NewToolkit(cfg.Tools.FFmpeg, cfg.Tools.FFprobe, nil, nil)

			statuses := video.CheckBinaries(tools.Requirements())
			fmt.Fprintln(cmd.OutOrStdout(), renderToolStatus(statuses))

			missing := 0
			for _, status := range statuses {
				if !status.Available {
					missing++
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing", missing)
			}
			return nil
		},
	}
}
