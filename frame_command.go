package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"charvideo/filters"
	"charvideo/fonts"
	"charvideo/helpers"
	"charvideo/pipeline"
)

func newFrameCommand(flags *cliFlags) *cobra.Command {
	var printGrid bool

	cmd := &cobra.Command{
		Use:   "frame SRC DST",
		Short: "Render a single image as character art",
		Args: func(cmd *cobra.Command, args []string) error {
			return usage(cobra.ExactArgs(2)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts, err := cfg.RenderOptions()
			if err != nil {
				return usage(err)
			}

			renderer, err := pipeline.NewRenderer(opts, fonts.ResolvePath(installDir(), cfg.Render.FontPath))
			if err != nil {
				return invalidAsUsage(err)
			}

			src, dst := args[0], args[1]
			if !printGrid {
				if err := renderer.RenderFile(src, dst); err != nil {
					return invalidAsUsage(err)
				}
				logger.Info("rendered frame", "src", src, "dst", dst)
				return nil
			}

			if !helpers.SupportedFormat(dst) {
				return usage(fmt.Errorf("unsupported output format %q", dst))
			}
			img, err := helpers.LoadImage(src)
			if err != nil {
				return err
			}
			grid, err := renderer.Sample(img)
			if err != nil {
				return invalidAsUsage(err)
			}
			if err := helpers.SaveImage(dst, renderer.Rasterize(grid), opts.JPEGQuality); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), grid.String())
			logger.Info("rendered frame", "src", src, "dst", dst, "columns", grid.Width, "rows", grid.Height)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printGrid, "print", false, "Also print the glyph grid as text")
	return cmd
}

func invalidAsUsage(err error) error {
	if errors.Is(err, filters.ErrInvalidArgument) {
		return usage(err)
	}
	return err
}
