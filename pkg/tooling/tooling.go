// Package tooling is the programmatic entry point: it loads configuration,
// sets up logging and runs workflows or single submissions without the CLI.
package tooling

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/composition"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/prefs"
)

// Version is set at build time with -ldflags "-X ..."
var Version = "0.1.0"

// InitOptions contains options for initializing the tooling API
type InitOptions struct {
	ConfigFile  string // Path to configuration file
	Debug       bool   // Enable debug logging
	LogFormat   string // Log format: "human" or "json"
	LogFile     string // Path to log file
	SuppressLog bool   // Suppress all logging

	// Dumper and Tool override the remembered preferences for this process
	Dumper string
	Tool   string
}

// WorkflowResult contains the results of a workflow execution
type WorkflowResult struct {
	Success      bool                   // Whether the workflow completed successfully
	ErrorMessage string                 // Error message if any
	Variables    map[string]interface{} // Final state of variables after workflow execution
}

var (
	initialized bool
	settings    = prefs.Default()
)

// Initialize initializes the tooling API with the given options
func Initialize(options InitOptions) error {
	if initialized {
		return nil // Already initialized
	}

	configErr := config.Initialize(options.ConfigFile)

	// Update config with provided options
	if options.Debug {
		config.Instance.Debug = true
	}

	if options.LogFormat != "" {
		config.Instance.LogFormat = options.LogFormat
	}

	if options.LogFile != "" {
		config.Instance.LogFile = options.LogFile
	}

	if !options.SuppressLog {
		logConfig := logger.DefaultConfig()
		logConfig.Debug = config.Instance.Debug
		logConfig.LogFile = config.Instance.LogFile
		if config.Instance.LogFormat != "" {
			logConfig.LogFormat = config.Instance.LogFormat
		}

		if err := logger.InitLogger(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.LogInfo("Tooling API initialized", map[string]interface{}{
			"config_file": config.ConfigFile,
			"debug":       config.Instance.Debug,
			"log_format":  config.Instance.LogFormat,
		})

		if configErr != nil {
			logger.LogWarn("Configuration initialization warning", map[string]interface{}{
				"error": configErr.Error(),
			})
		}
	}

	loaded, err := LoadSettings()
	if err != nil {
		logger.LogWarn("Preferences unavailable, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		loaded = prefs.Default()
	}
	settings = loaded.Override(options.Dumper, options.Tool)

	initialized = true
	return nil
}

// DefaultOptions returns the default initialization options
func DefaultOptions() InitOptions {
	return InitOptions{
		Debug:       false,
		LogFormat:   "human",
		SuppressLog: false,
	}
}

func ensureInitialized() error {
	if initialized {
		return nil
	}
	if err := Initialize(DefaultOptions()); err != nil {
		return fmt.Errorf("failed to initialize tooling API: %w", err)
	}
	return nil
}

// PreferencesStore opens the configured preferences file, or the default one
func PreferencesStore() (*prefs.Store, error) {
	return prefs.NewStore(config.Instance.Preferences.File)
}

// LoadSettings reads the remembered dumper and tool
func LoadSettings() (prefs.Settings, error) {
	store, err := PreferencesStore()
	if err != nil {
		return prefs.Default(), err
	}
	return store.Load()
}

// Settings returns the dumper and tool new submissions start from
func Settings() prefs.Settings {
	return settings
}

// NewEnv builds the collaborators shared by workflow steps from the loaded
// configuration
func NewEnv() *composition.Env {
	return composition.NewEnv(config.Instance, settings)
}

// ExecuteWorkflow executes a workflow defined in a file
func ExecuteWorkflow(ctx context.Context, workflowFile string) (*WorkflowResult, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	logger.LogInfo("Executing workflow", map[string]interface{}{
		"file": workflowFile,
	})

	workflow, err := composition.LoadWorkflow(workflowFile)
	if err != nil {
		return &WorkflowResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("Failed to load workflow: %s", err.Error()),
		}, err
	}

	errs := composition.ValidateWorkflow(workflow)
	if len(errs) > 0 {
		var errorMessages []string
		for _, err := range errs {
			errorMessages = append(errorMessages, err.Error())
		}

		errorMessage := fmt.Sprintf("Workflow validation failed with %d errors: %s",
			len(errs), strings.Join(errorMessages, "; "))

		return &WorkflowResult{
			Success:      false,
			ErrorMessage: errorMessage,
		}, fmt.Errorf("%s", errorMessage)
	}

	if err := composition.ExecuteWorkflow(ctx, workflow, NewEnv()); err != nil {
		return &WorkflowResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("Workflow execution failed: %s", err.Error()),
			Variables:    workflow.Variables,
		}, err
	}

	return &WorkflowResult{
		Success:   true,
		Variables: workflow.Variables,
	}, nil
}

// ExecuteWorkflowFromYAML executes a workflow defined in a YAML string
func ExecuteWorkflowFromYAML(ctx context.Context, workflowYAML string) (*WorkflowResult, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}

	tempFile, err := os.CreateTemp("", "workflow-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(workflowYAML); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write workflow to temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	return ExecuteWorkflow(ctx, tempFile.Name())
}

// GenerateSubmission writes one submission document
func GenerateSubmission(ctx context.Context, req composition.SubmissionRequest) (*composition.SubmissionResult, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}
	return composition.GenerateSubmission(ctx, NewEnv(), req)
}

// GetVersion returns the current version of the tooling API
func GetVersion() string {
	return Version
}

// Shutdown performs any necessary cleanup before the application exits
func Shutdown() error {
	if initialized {
		logger.LogInfo("Tooling API shutting down", nil)
		_ = logger.Sync()
	}
	return nil
}
