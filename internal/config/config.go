// Package config loads the typed configuration surface from a YAML file,
// with environment variables overriding file values. No command-line flag
// overrides a configuration key: cmd/msgspecgen/main.go only takes the
// configuration file path, the input workbook path and -dry-run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	cerr "ssw-msgspec-gen/pkg/errors"
)

// Config is the full recognized configuration surface.
type Config struct {
	Output struct {
		Root         string `yaml:"root"`
		KeepBackup   bool   `yaml:"keepBackup"`
		MinFreeBytes int64  `yaml:"minFreeBytes"`
	} `yaml:"output"`

	XML struct {
		Namespace struct {
			Inbound  string `yaml:"inbound"`
			Outbound string `yaml:"outbound"`
		} `yaml:"namespace"`
		Project struct {
			GroupID    string `yaml:"groupId"`
			ArtifactID string `yaml:"artifactId"`
		} `yaml:"project"`
	} `yaml:"xml"`

	ClassGen struct {
		Package        string `yaml:"package"`
		UseAnnotations bool   `yaml:"useAnnotations"`
	} `yaml:"classGen"`

	Parser struct {
		MaxNestingDepth int `yaml:"maxNestingDepth"`
	} `yaml:"parser"`

	OpenAPI struct {
		Title         string `yaml:"title"`
		Version       string `yaml:"version"`
		Description   string `yaml:"description"`
		ServerURL     string `yaml:"serverUrl"`
		SplitStrategy string `yaml:"splitStrategy"`
	} `yaml:"openapi"`

	Consistency struct {
		StrictMode       bool              `yaml:"strictMode"`
		TypeMappingRules map[string]string `yaml:"typeMappingRules"`
		IgnoreFields     []string          `yaml:"ignoreFields"`
	} `yaml:"consistency"`

	Audit struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"audit"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load reads configFile (if non-empty), applies environment overrides,
// fills in defaults for anything still unset, and validates the result.
// Environment values override file values; defaults only fill keys that
// neither layer set. Audit is enabled unless the file or the environment
// sets audit.enabled to false.
func Load(configFile string) (*Config, error) {
	cfg := &Config{}
	cfg.Audit.Enabled = true

	if configFile != "" {
		if err := loadConfigFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvironmentOverrides(cfg)
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cerr.Config(path, "failed to read configuration file: "+err.Error())
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cerr.Config(path, "failed to parse configuration file: "+err.Error())
	}
	return nil
}

func applyEnvironmentOverrides(cfg *Config) {
	cfg.Output.Root = getEnvString("MSGSPEC_OUTPUT_ROOT", cfg.Output.Root)
	cfg.Output.KeepBackup = getEnvBool("MSGSPEC_OUTPUT_KEEP_BACKUP", cfg.Output.KeepBackup)
	cfg.Output.MinFreeBytes = getEnvInt64("MSGSPEC_OUTPUT_MIN_FREE_BYTES", cfg.Output.MinFreeBytes)

	cfg.XML.Namespace.Inbound = getEnvString("MSGSPEC_XML_NAMESPACE_INBOUND", cfg.XML.Namespace.Inbound)
	cfg.XML.Namespace.Outbound = getEnvString("MSGSPEC_XML_NAMESPACE_OUTBOUND", cfg.XML.Namespace.Outbound)
	cfg.XML.Project.GroupID = getEnvString("MSGSPEC_XML_GROUP_ID", cfg.XML.Project.GroupID)
	cfg.XML.Project.ArtifactID = getEnvString("MSGSPEC_XML_ARTIFACT_ID", cfg.XML.Project.ArtifactID)

	cfg.ClassGen.Package = getEnvString("MSGSPEC_CLASSGEN_PACKAGE", cfg.ClassGen.Package)
	cfg.ClassGen.UseAnnotations = getEnvBool("MSGSPEC_CLASSGEN_USE_ANNOTATIONS", cfg.ClassGen.UseAnnotations)

	cfg.Parser.MaxNestingDepth = getEnvInt("MSGSPEC_PARSER_MAX_NESTING_DEPTH", cfg.Parser.MaxNestingDepth)

	cfg.OpenAPI.Title = getEnvString("MSGSPEC_OPENAPI_TITLE", cfg.OpenAPI.Title)
	cfg.OpenAPI.Version = getEnvString("MSGSPEC_OPENAPI_VERSION", cfg.OpenAPI.Version)
	cfg.OpenAPI.Description = getEnvString("MSGSPEC_OPENAPI_DESCRIPTION", cfg.OpenAPI.Description)
	cfg.OpenAPI.ServerURL = getEnvString("MSGSPEC_OPENAPI_SERVER_URL", cfg.OpenAPI.ServerURL)
	cfg.OpenAPI.SplitStrategy = getEnvString("MSGSPEC_OPENAPI_SPLIT_STRATEGY", cfg.OpenAPI.SplitStrategy)

	cfg.Consistency.StrictMode = getEnvBool("MSGSPEC_CONSISTENCY_STRICT_MODE", cfg.Consistency.StrictMode)
	if fields := getEnvString("MSGSPEC_CONSISTENCY_IGNORE_FIELDS", ""); fields != "" {
		cfg.Consistency.IgnoreFields = strings.Split(fields, ",")
	}

	cfg.Audit.Enabled = getEnvBool("MSGSPEC_AUDIT_ENABLED", cfg.Audit.Enabled)

	cfg.Logging.Level = getEnvString("MSGSPEC_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvString("MSGSPEC_LOG_FORMAT", cfg.Logging.Format)
}

// applyDefaults fills in every field that has a sensible default. Required
// keys (XML namespaces, groupId/artifactId) are deliberately left unset
// here so Validate can reject a run that never supplied them.
func applyDefaults(cfg *Config) {
	if cfg.Output.Root == "" {
		cfg.Output.Root = "./out"
	}
	if cfg.Output.MinFreeBytes == 0 {
		cfg.Output.MinFreeBytes = 50 * 1024 * 1024
	}
	if cfg.ClassGen.Package == "" && cfg.XML.Project.GroupID != "" && cfg.XML.Project.ArtifactID != "" {
		cfg.ClassGen.Package = cfg.XML.Project.GroupID + "." + cfg.XML.Project.ArtifactID
	}
	if cfg.Parser.MaxNestingDepth <= 0 {
		cfg.Parser.MaxNestingDepth = 50
	}
	if cfg.OpenAPI.ServerURL == "" {
		cfg.OpenAPI.ServerURL = "http://localhost:8080"
	}
	if cfg.OpenAPI.SplitStrategy == "" {
		cfg.OpenAPI.SplitStrategy = "NONE"
	}
	if cfg.Consistency.TypeMappingRules == nil {
		cfg.Consistency.TypeMappingRules = defaultTypeMappingRules()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func defaultTypeMappingRules() map[string]string {
	return map[string]string{
		"xs:string": "string",
		"String":    "string",
		"string":    "string",
		"decimal":   "string",
		"date":      "string",
	}
}

// Validate checks the required keys and rejects malformed
// values (ConfigError).
func Validate(cfg *Config) error {
	if cfg.Output.Root == "" {
		return cerr.Config("output.root", "target output directory is required")
	}
	if cfg.XML.Namespace.Inbound == "" {
		return cerr.Config("xml.namespace.inbound", "inbound XML namespace is required")
	}
	if cfg.XML.Namespace.Outbound == "" {
		return cerr.Config("xml.namespace.outbound", "outbound XML namespace is required")
	}
	if cfg.XML.Project.GroupID == "" {
		return cerr.Config("xml.project.groupId", "groupId is required")
	}
	if cfg.XML.Project.ArtifactID == "" {
		return cerr.Config("xml.project.artifactId", "artifactId is required")
	}
	if cfg.Parser.MaxNestingDepth <= 0 {
		return cerr.Config("parser.maxNestingDepth", "must be a positive integer")
	}
	switch cfg.OpenAPI.SplitStrategy {
	case "NONE", "BY_OBJECT":
	default:
		return cerr.Config("openapi.splitStrategy", fmt.Sprintf("unsupported split strategy %q", cfg.OpenAPI.SplitStrategy))
	}
	if cfg.Output.MinFreeBytes < 0 {
		return cerr.Config("output.minFreeBytes", "must not be negative")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
