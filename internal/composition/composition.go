// Package composition runs YAML or JSON workflows that chain the dump
// operations: hashing, FullXCI assembly, metadata import, scene verification
// and submission generation.
package composition

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/spf13/viper"
)

// LoadWorkflow loads a composition workflow from a file
func LoadWorkflow(filePath string) (*Workflow, error) {
	v := viper.New()

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: workflow %s", errors.ErrFileNotFound, filePath)
	}

	v.SetConfigFile(filePath)

	// Determine the file extension for type
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != "" {
		v.SetConfigType(ext[1:])
	} else {
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: workflow %s: %v", errors.ErrConfigParseError, filePath, err)
	}

	workflow := &Workflow{}
	if err := v.Unmarshal(workflow); err != nil {
		return nil, fmt.Errorf("%w: workflow %s: %v", errors.ErrConfigInvalid, filePath, err)
	}

	if workflow.Variables == nil {
		workflow.Variables = make(map[string]interface{})
	}
	return workflow, nil
}

// addSystemVariables adds environment values that steps may reference
func addSystemVariables(workflow *Workflow, env *Env) {
	setDefault := func(k string, v interface{}) {
		if _, ok := workflow.Variables[k]; !ok {
			workflow.Variables[k] = v
		}
	}

	setDefault("output_dir", env.OutputDir)
	if cwd, err := os.Getwd(); err == nil {
		setDefault("current_dir", cwd)
	}
	now := time.Now()
	setDefault("timestamp", fmt.Sprintf("%d", now.Unix()))
	setDefault("date", now.Format("2006-01-02"))
}

// renderParameters expands templates in string parameters against the
// variables as they stand when the step starts
func renderParameters(step Step, variables map[string]interface{}) (map[string]interface{}, error) {
	rendered := make(map[string]interface{}, len(step.Parameters))
	for key, value := range step.Parameters {
		strValue, ok := value.(string)
		if !ok {
			rendered[key] = value
			continue
		}
		processed, err := processTemplate(strValue, variables)
		if err != nil {
			return nil, fmt.Errorf("error processing template in step %s, parameter %s: %w", step.Name, key, err)
		}
		rendered[key] = processed
	}
	return rendered, nil
}

// processTemplate processes a single template string
func processTemplate(templateString string, variables map[string]interface{}) (string, error) {
	// Only process if the string contains template markers
	if !strings.Contains(templateString, "{{") {
		return templateString, nil
	}

	tmpl, err := template.New("inline").Option("missingkey=error").Parse(templateString)
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, variables); err != nil {
		return "", err
	}

	return buffer.String(), nil
}

// ValidateWorkflow validates the workflow structure and parameters and
// reports every problem found
func ValidateWorkflow(workflow *Workflow) []error {
	var errs []error

	if workflow.Name == "" {
		errs = append(errs, fmt.Errorf("workflow name is required"))
	}

	if len(workflow.Steps) == 0 {
		errs = append(errs, fmt.Errorf("workflow must contain at least one step"))
	}

	seen := make(map[string]bool, len(workflow.Steps))
	for i, step := range workflow.Steps {
		if step.Name == "" {
			errs = append(errs, fmt.Errorf("step %d: name is required", i+1))
		} else if seen[step.Name] {
			errs = append(errs, fmt.Errorf("step %d: duplicate name '%s'", i+1, step.Name))
		}
		seen[step.Name] = true

		if step.Type == "" {
			errs = append(errs, fmt.Errorf("step %d (%s): type is required", i+1, step.Name))
			continue
		}

		def, ok := stepRegistry[step.Type]
		if !ok {
			errs = append(errs, fmt.Errorf("step %d (%s): invalid type '%s'", i+1, step.Name, step.Type))
			continue
		}

		for _, err := range def.validate(step) {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err))
		}
	}

	return errs
}

// ExecuteWorkflow executes the workflow steps in order, stopping at the first
// failure
func ExecuteWorkflow(ctx context.Context, workflow *Workflow, env *Env) error {
	if workflow.Variables == nil {
		workflow.Variables = make(map[string]interface{})
	}
	addSystemVariables(workflow, env)

	logger.LogInfo("Starting workflow execution", map[string]interface{}{
		"workflow": workflow.Name,
		"steps":    len(workflow.Steps),
	})

	for i, step := range workflow.Steps {
		logger.LogInfo(fmt.Sprintf("Executing step %d/%d: %s", i+1, len(workflow.Steps), step.Name),
			map[string]interface{}{
				"type":        step.Type,
				"description": step.Description,
			})

		if step.Condition != "" {
			shouldRun, err := evaluateCondition(step.Condition, workflow.Variables)
			if err != nil {
				return fmt.Errorf("error evaluating condition for step '%s': %w", step.Name, err)
			}

			if !shouldRun {
				logger.LogInfo(fmt.Sprintf("Skipping step %d/%d: %s (condition not met)", i+1, len(workflow.Steps), step.Name), nil)
				continue
			}
		}

		def, found := stepRegistry[step.Type]
		if !found {
			return fmt.Errorf("no handler found for step type '%s'", step.Type)
		}

		params, err := renderParameters(step, workflow.Variables)
		if err != nil {
			return err
		}
		step.Parameters = params

		result, err := def.handler(ctx, env, step, workflow.Variables)
		if err != nil {
			return fmt.Errorf("error executing step '%s': %w", step.Name, err)
		}

		for k, v := range result {
			workflow.Variables[k] = v
		}

		logger.LogInfo(fmt.Sprintf("Completed step %d/%d: %s", i+1, len(workflow.Steps), step.Name), nil)
	}

	logger.LogInfo("Workflow execution completed successfully", map[string]interface{}{
		"workflow": workflow.Name,
	})

	return nil
}

// evaluateCondition renders the condition and treats true, yes and 1 as true
func evaluateCondition(condition string, variables map[string]interface{}) (bool, error) {
	result, err := processTemplate(condition, variables)
	if err != nil {
		return false, err
	}

	result = strings.TrimSpace(strings.ToLower(result))
	return result == "true" || result == "yes" || result == "1", nil
}
