package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/osutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name used for config files and directories
	AppName = "nx-cart-submitter"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "NX_SUBMITTER"
)

// AppConfig holds the application configuration
type AppConfig struct {
	// Core settings
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	// External tools. Dir holds hactoolnet, prod.keys and unrar unless the
	// individual paths are set.
	Tools struct {
		Dir        string `mapstructure:"dir"`
		Hactoolnet string `mapstructure:"hactoolnet"`
		Keys       string `mapstructure:"keys"`
		Unrar      string `mapstructure:"unrar"`
	} `mapstructure:"tools"`

	Digest struct {
		ChunkSize int `mapstructure:"chunk_size"`
	} `mapstructure:"digest"`

	Output struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"output"`

	Preferences struct {
		File string `mapstructure:"file"`
	} `mapstructure:"preferences"`
}

// Global variables
var (
	// Global configuration instance
	Instance AppConfig

	// Status indicators
	ConfigLoaded bool
	ConfigFile   string

	// Viper instance
	v = viper.New()

	// Ensure thread safety
	initOnce sync.Once
)

// Viper returns the instance backing the configuration so command flags can
// be bound to it before Initialize runs
func Viper() *viper.Viper {
	return v
}

// Initialize sets up the configuration system
func Initialize(cfgFile string) error {
	var err error

	initOnce.Do(func() {
		err = load(v, cfgFile)
	})

	return err
}

func load(v *viper.Viper, cfgFile string) error {
	setDefaults(v)

	// Load configuration from file if specified
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		addSearchPaths(v)
	}

	// Set up environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var err error
	if readErr := v.ReadInConfig(); readErr != nil {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
			// Only capture error if the config file was found but couldn't be read
			err = fmt.Errorf("%w: %v", errors.ErrConfigParseError, readErr)
		}
		ConfigLoaded = false
		ConfigFile = ""
	} else {
		ConfigLoaded = true
		ConfigFile = v.ConfigFileUsed()
	}

	var cfg AppConfig
	if unmarshalErr := v.Unmarshal(&cfg); unmarshalErr != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, unmarshalErr)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return validateErr
	}
	Instance = cfg

	ensureDirectories()
	return err
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core settings
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("log_file", "")

	// Tools live next to the executable unless configured
	toolsDir, err := fsutil.GetExecutableDir()
	if err != nil {
		toolsDir = "."
	}
	v.SetDefault("tools.dir", toolsDir)
	v.SetDefault("tools.hactoolnet", "")
	v.SetDefault("tools.keys", "")
	v.SetDefault("tools.unrar", "")

	v.SetDefault("digest.chunk_size", digest.DefaultChunkSize)
	v.SetDefault("output.dir", ".")
	v.SetDefault("preferences.file", "")
}

// addSearchPaths adds config search paths
func addSearchPaths(v *viper.Viper) {
	// Always check current directory first
	v.AddConfigPath(".")

	// In dev mode, only use current directory and user config dir
	if osutil.IsDevEnvironment() {
		configDir, err := fsutil.GetConfigDir(AppName)
		if err == nil {
			v.AddConfigPath(configDir)
		}
		return
	}

	// In CI/Pipeline, only use current directory and explicit CI directories
	if isRunningInPipeline() {
		v.AddConfigPath("/etc/" + AppName)
		return
	}

	configDir, err := fsutil.GetConfigDir(AppName)
	if err == nil {
		v.AddConfigPath(configDir)
	}

	systemConfigDir, err := fsutil.GetSystemConfigDir(AppName)
	if err == nil {
		v.AddConfigPath(systemConfigDir)
	}
}

// Validate checks values that would otherwise fail deep inside an operation
func (c AppConfig) Validate() error {
	switch c.LogFormat {
	case "human", "json":
	default:
		return fmt.Errorf("%w: log_format must be human or json, got %q", errors.ErrConfigInvalid, c.LogFormat)
	}
	if c.Digest.ChunkSize <= 0 {
		return fmt.Errorf("%w: digest.chunk_size must be positive", errors.ErrConfigInvalid)
	}
	return nil
}

// ensureDirectories creates necessary directories based on configuration
func ensureDirectories() {
	// Don't create directories in a pipeline environment unless explicitly requested
	if isRunningInPipeline() && os.Getenv("CREATE_DIRS") != "true" {
		return
	}

	if Instance.LogFile != "" {
		_ = fsutil.CreateDirIfNotExists(filepath.Dir(Instance.LogFile))
	}
}

// SaveConfig saves the current configuration to a file
func SaveConfig(filePath string) error {
	saveV := viper.New()
	saveV.SetConfigFile(filePath)

	for k, val := range settingsMap(Instance) {
		saveV.Set(k, val)
	}

	configDir := filepath.Dir(filePath)
	if err := fsutil.CreateDirIfNotExists(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return saveV.WriteConfig()
}

// settingsMap flattens the configuration into viper keys
func settingsMap(c AppConfig) map[string]interface{} {
	return map[string]interface{}{
		"debug":             c.Debug,
		"log_format":        c.LogFormat,
		"log_file":          c.LogFile,
		"tools.dir":         c.Tools.Dir,
		"tools.hactoolnet":  c.Tools.Hactoolnet,
		"tools.keys":        c.Tools.Keys,
		"tools.unrar":       c.Tools.Unrar,
		"digest.chunk_size": c.Digest.ChunkSize,
		"output.dir":        c.Output.Dir,
		"preferences.file":  c.Preferences.File,
	}
}

// isRunningInPipeline returns true if running in a CI/CD pipeline environment
func isRunningInPipeline() bool {
	return os.Getenv("CI") == "true" ||
		os.Getenv("PIPELINE") == "true" ||
		os.Getenv("GITHUB_ACTIONS") == "true" ||
		os.Getenv("JENKINS_URL") != ""
}
