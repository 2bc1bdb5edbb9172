package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// WriteTemplate writes the default configuration as YAML to path. An
// existing file is never overwritten.
func WriteTemplate(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}

	return nil
}
