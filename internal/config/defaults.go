package config

// TrashFolderName is the reserved top-level folder for soft-deleted clients.
// The leading underscore keeps it out of client listings.
const TrashFolderName = "_Papelera"

const (
	defaultBaseDir          = "~/Documents/MechanicFlow"
	defaultDataDir          = "~/.local/share/mechanicflow"
	defaultLogDir           = "~/.local/share/mechanicflow/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultMinFreeMiB       = 1024
	defaultCompressionLevel = 6
	defaultJobPollInterval  = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Transcode: Transcode{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			MinFreeMiB:    defaultMinFreeMiB,
		},
		Archive: Archive{
			CompressionLevel: defaultCompressionLevel,
		},
		Workflow: Workflow{
			JobPollInterval: defaultJobPollInterval,
		},
	}
}
