package config

// ProjectType identifies the kind of codebase being verified, used to
// seed file patterns during interactive setup.
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node-backend"
)

// Strictness selects how aggressively the gate fails files.
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset carries the file-selection defaults for a project type
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
	CoreDirs        []string
}

// StrictnessPreset carries the threshold defaults for a strictness level
type StrictnessPreset struct {
	PassThreshold        float64
	MaxMethodsPerClass   int
	MaxLineLength        int
	CriticalityThreshold float64
}

// GetProjectPresets returns the file-selection presets per project type
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx", "**/*.py", "**/*.go"},
			ExcludePatterns: []string{"node_modules", "dist", "build", "vendor"},
			CoreDirs:        []string{"src/core", "internal", "lib/core"},
		},
		ProjectTypeReact: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"},
			ExcludePatterns: []string{"node_modules", "dist", "build", ".next", "coverage"},
			CoreDirs:        []string{"src", "app", "lib"},
		},
		ProjectTypeVue: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.vue"},
			ExcludePatterns: []string{"node_modules", "dist", ".nuxt", ".output", "coverage"},
			CoreDirs:        []string{"src", "composables", "stores"},
		},
		ProjectTypeNodeBackend: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.mjs", "**/*.cjs"},
			ExcludePatterns: []string{"node_modules", "dist", "build", "coverage"},
			CoreDirs:        []string{"src/core", "src/services", "lib"},
		},
	}
}

// GetStrictnessPresets returns the threshold presets per strictness level
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			PassThreshold:        5.0,
			MaxMethodsPerClass:   15,
			MaxLineLength:        140,
			CriticalityThreshold: 0.7,
		},
		StrictnessStandard: {
			PassThreshold:        7.0,
			MaxMethodsPerClass:   10,
			MaxLineLength:        120,
			CriticalityThreshold: 0.5,
		},
		StrictnessStrict: {
			PassThreshold:        8.5,
			MaxMethodsPerClass:   8,
			MaxLineLength:        100,
			CriticalityThreshold: 0.3,
		},
	}
}

// MinimalConfigTemplate returns a short, commented starter config
// covering the settings most projects tune first
func MinimalConfigTemplate() string {
	return `# qscan minimal configuration
# Full reference: https://github.com/ludo-technologies/qscan

classifier:
  # Files matching these globs are scored as critical
  critical_patterns:
    - "*auth*"
    - "*security*"
    - "*payment*"
  # Score at or above this runs deep analysis
  criticality_threshold: 0.5

analysis:
  # Minimum score for a passing result
  pass_threshold: 7.0

pool:
  workers: 3

cache:
  ttl_seconds: 300
  persist: true
`
}

// BuildConfig applies the presets for a project type and strictness
// level on top of the defaults
func BuildConfig(projectType ProjectType, strictness Strictness) *Config {
	cfg := DefaultConfig()

	if preset, ok := GetProjectPresets()[projectType]; ok {
		cfg.Files.IncludePatterns = preset.IncludePatterns
		cfg.Files.ExcludePatterns = preset.ExcludePatterns
		cfg.Classifier.CoreDirs = preset.CoreDirs
	}

	if preset, ok := GetStrictnessPresets()[strictness]; ok {
		cfg.Analysis.PassThreshold = preset.PassThreshold
		cfg.Analysis.MaxMethodsPerClass = preset.MaxMethodsPerClass
		cfg.Analysis.MaxLineLength = preset.MaxLineLength
		cfg.Classifier.CriticalityThreshold = preset.CriticalityThreshold
	}

	return cfg
}
