// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strconv"

	"code.hybscloud.com/guardstack"
)

// Environment variables overriding the file.
const (
	EnvLogLevel     = "GUARDSTACK_LOG_LEVEL"
	EnvLogFormat    = "GUARDSTACK_LOG_FORMAT"
	EnvGrowthFactor = "GUARDSTACK_GROWTH_FACTOR"
	EnvShrinkFactor = "GUARDSTACK_SHRINK_FACTOR"
	EnvTagWidth     = "GUARDSTACK_TAG_WIDTH"
)

// ApplyEnv overrides cfg from the environment looked up with getenv
// (usually os.Getenv). Empty variables are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv(EnvGrowthFactor); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvGrowthFactor, err)
		}
		cfg.Policy.GrowthFactor = f
	}
	if v := getenv(EnvShrinkFactor); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvShrinkFactor, err)
		}
		cfg.Policy.ShrinkFactor = f
	}
	if v := getenv(EnvTagWidth); v != "" {
		w, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTagWidth, err)
		}
		cfg.Policy.TagWidth = guardstack.Width(w)
	}
	return nil
}
