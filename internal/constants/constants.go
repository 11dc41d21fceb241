package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "qscan"

	// ConfigFileName is the default config file name
	ConfigFileName = ".qscan.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "QSCAN"
)

// Analysis mode constants
const (
	AnalysisSkip = "skip"
	AnalysisFast = "fast"
	AnalysisDeep = "deep"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)
