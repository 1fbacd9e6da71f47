package config

const (
	defaultOutputDir       = "~/chaptercut/output"
	defaultWorkDir         = "~/.local/share/chaptercut/work"
	defaultLogDir          = "~/.local/share/chaptercut/logs"
	defaultHandleFrames    = 10
	defaultClipWidth       = 1920
	defaultClipHeight      = 1080
	defaultVideoCodec      = "libx264"
	defaultVideoBitrate    = "8M"
	defaultAudioCodec      = "aac"
	defaultAudioBitrate    = "192k"
	defaultPixelFormat     = "yuv420p"
	defaultContainer       = "mp4"
	defaultPausePollMillis = 500
	defaultNotifyTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Engine: Engine{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
		},
		Clip: Clip{
			HandleFrames: defaultHandleFrames,
			Width:        defaultClipWidth,
			Height:       defaultClipHeight,
			VideoCodec:   defaultVideoCodec,
			VideoBitrate: defaultVideoBitrate,
			AudioCodec:   defaultAudioCodec,
			AudioBitrate: defaultAudioBitrate,
			PixelFormat:  defaultPixelFormat,
			Container:    defaultContainer,
		},
		Workflow: Workflow{
			PausePollMillis: defaultPausePollMillis,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
