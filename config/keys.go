package config

const (
	delimiter = "-"

	// KeyLogLevel names the log level in the YAML file and in errors.
	KeyLogLevel = "log_level"

	FlagConfig            = "config"
	FlagWorkers           = "workers"
	FlagChunkSize         = "chunk" + delimiter + "size"
	FlagProgressChunkSize = "progress" + delimiter + FlagChunkSize
	FlagTrialChunkSize    = "trial" + delimiter + FlagChunkSize
	FlagLogLevel          = "log" + delimiter + "level"
	FlagProgress          = "progress"
	FlagDev               = "dev"
)
