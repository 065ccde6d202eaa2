package config

import "charvideo/video"

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Render: Render{
			TextColor:       "auto",
			BackgroundColor: "white",
			BlockSize:       20,
			TextSize:        10,
			JPEGQuality:     75,
			FrameExt:        video.DefaultExt,
		},
		Workers: Workers{Count: 10},
		Tools: Tools{
			FFmpeg:           "ffmpeg",
			FFprobe:          "ffprobe",
			KillGraceSeconds: 5,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
