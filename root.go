package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"charvideo/config"
	"charvideo/fonts"
	"charvideo/logging"
	"charvideo/pipeline"
	"charvideo/video"
)

// cliFlags holds every flag value; a flag only overrides the configuration
// when it was set on the command line.
type cliFlags struct {
	configPath string
	logLevel   string
	logFormat  string

	textColor   string
	bgColor     string
	mosaic      bool
	blockSize   int
	textSize    int
	width       int
	height      int
	fontPath    string
	jpegQuality int

	workers      int
	deleteFrames bool
	workDir      string
	output       string
	noProgress   bool
}

func newRootCommand() *cobra.Command {
	defaults := config.Default()
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "charvideo [flags] VIDEO",
		Short:         "Re-render a video as colored character art",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			return usage(cobra.ExactArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, flags, args[0])
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (default ~/.config/charvideo/config.toml)")
	persistent.StringVar(&flags.logLevel, "log-level", defaults.Logging.Level, "Log level: debug, info, warn, error")
	persistent.StringVar(&flags.logFormat, "log-format", defaults.Logging.Format, "Log format: console or json")
	persistent.StringVar(&flags.textColor, "text-color", defaults.Render.TextColor, "Glyph color: auto, a color name or #rrggbb")
	persistent.StringVar(&flags.bgColor, "bg-color", defaults.Render.BackgroundColor, "Canvas color: a color name or #rrggbb")
	persistent.BoolVar(&flags.mosaic, "mosaic", defaults.Render.Mosaic, "Pixelate frames before sampling")
	persistent.IntVar(&flags.blockSize, "block-size", defaults.Render.BlockSize, "Mosaic block edge in pixels")
	persistent.IntVar(&flags.textSize, "text-size", defaults.Render.TextSize, "Glyph cell edge in pixels")
	persistent.IntVar(&flags.width, "width", defaults.Render.Width, "Grid columns (used with --height)")
	persistent.IntVar(&flags.height, "height", defaults.Render.Height, "Grid rows (used with --width)")
	persistent.StringVar(&flags.fontPath, "font", defaults.Render.FontPath, "TrueType font file (default embedded Go Mono)")
	persistent.IntVar(&flags.jpegQuality, "jpeg-quality", defaults.Render.JPEGQuality, "JPEG quality of rendered frames")

	local := rootCmd.Flags()
	local.IntVarP(&flags.workers, "workers", "j", defaults.Workers.Count, "Render workers (0 means one per CPU)")
	local.BoolVar(&flags.deleteFrames, "delete-frames", defaults.Cleanup.DeleteFrames, "Delete intermediate frames after a successful run")
	local.StringVar(&flags.workDir, "work-dir", "", "Directory for tmp_frames and out_frames (default executable directory)")
	local.StringVarP(&flags.output, "output", "o", "", "Output video path (default output_<name> next to the input)")
	local.BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")

	rootCmd.AddCommand(newFrameCommand(flags))
	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newConfigCommand(flags))
	return rootCmd
}

// loadConfig reads the configuration file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command, flags *cliFlags) (*config.Config, error) {
	cfg, path, found, err := config.Load(flags.configPath)
	if err != nil {
		return nil, usage(err)
	}
	if flags.configPath != "" && !found {
		return nil, usage(fmt.Errorf("config file %s not found", path))
	}

	set := cmd.Flags().Changed
	if set("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if set("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if set("text-color") {
		cfg.Render.TextColor = flags.textColor
	}
	if set("bg-color") {
		cfg.Render.BackgroundColor = flags.bgColor
	}
	if set("mosaic") {
		cfg.Render.Mosaic = flags.mosaic
	}
	if set("block-size") {
		cfg.Render.BlockSize = flags.blockSize
	}
	if set("text-size") {
		cfg.Render.TextSize = flags.textSize
	}
	if set("width") {
		cfg.Render.Width = flags.width
	}
	if set("height") {
		cfg.Render.Height = flags.height
	}
	if set("font") {
		cfg.Render.FontPath = flags.fontPath
	}
	if set("jpeg-quality") {
		cfg.Render.JPEGQuality = flags.jpegQuality
	}
	if set("workers") {
		cfg.Workers.Count = flags.workers
	}
	if set("delete-frames") {
		cfg.Cleanup.DeleteFrames = flags.deleteFrames
	}
	if set("work-dir") {
		cfg.Paths.WorkDir = flags.workDir
	}

	if err := cfg.Normalize(); err != nil {
		return nil, usage(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, usage(err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
	if err != nil {
		return nil, usage(err)
	}
	return logger.With("run_id", uuid.NewString()), nil
}

// installDir is the directory of the running executable. It anchors the
// default work dir and relative font paths.
func installDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func runConvert(cmd *cobra.Command, flags *cliFlags, videoPath string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	renderOpts, err := cfg.RenderOptions()
	if err != nil {
		return usage(err)
	}

	root := installDir()
	workDir := cfg.Paths.WorkDir
	if workDir == "" {
		workDir = root
	}

	procs := video.NewProcs(cfg.KillGrace())
	defer func() {
		if n := procs.TerminateAll(); n > 0 {
			logger.Warn("terminated leftover tool processes", "count", n)
		}
	}()
	tools := video.NewToolkit(cfg.Tools.FFmpeg, cfg.Tools.FFprobe, procs, logger)

	progress := newFrameProgress(cmd.ErrOrStderr(), !flags.noProgress && logging.IsTerminal(cmd.ErrOrStderr()))
	driver := pipeline.New(pipeline.Options{
		WorkDir:       workDir,
		Output:        flags.output,
		Ext:           cfg.Render.FrameExt,
		Workers:       cfg.Workers.Count,
		DeleteFrames:  cfg.Cleanup.DeleteFrames,
		FontPath:      fonts.ResolvePath(root, cfg.Render.FontPath),
		Render:        renderOpts,
		OnRenderStart: progress.start,
		OnFrame:       progress.frame,
	}, tools, logger)

	logger.Info("converting video", "video", videoPath, "work_dir", workDir, "workers", cfg.Workers.Count)
	summary, err := driver.Run(cmd.Context(), videoPath)
	progress.finish()
	if summary.Report.Failed() > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), renderFailures(summary.Report))
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	return nil
}
