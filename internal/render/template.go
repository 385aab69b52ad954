package render

import (
	_ "embed"
	"fmt"
	"os"
)

// DefaultTemplate is the JMeter test plan shipped with the tool.
//
//go:embed testplan.template.jmx
var DefaultTemplate string

// LoadTemplate reads a test plan template from path, or returns
// DefaultTemplate when path is empty.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read test plan template: %w", err)
	}
	if missing := MissingPlaceholders(string(data)); len(missing) > 0 {
		return "", fmt.Errorf("test plan template %s is missing placeholders %v", path, missing)
	}
	return string(data), nil
}
