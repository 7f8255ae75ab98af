package conf

// BaseOptions are the standard execution parameters every job carries,
// independent of what the pipeline does.
type BaseOptions struct {
	Project         string
	Region          string
	CredentialsFile string
	TempLocation    string
	JobName         string
}

// LaunchConfig controls where the launcher looks for runtime values.
type LaunchConfig struct {
	Env          string
	EnvFile      string
	TemplatePath string
}
