package nn

import "fmt"

// ConfigError indicates an invalid module configuration, such as a model
// dimension that is not divisible by the number of attention heads.
//
// Configuration problems are caller errors detectable at construction time,
// so constructors return them instead of panicking.
type ConfigError struct {
	Component string // which module rejected the configuration
	Field     string // offending field, if a single one can be named
	Message   string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid %s: %s", e.Component, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}
