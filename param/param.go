/***************************************************************
 *
 * Copyright (C) 2026, Pelican Project, Morgridge Institute for Research
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you
 * may not use this file except in compliance with the License.  You may
 * obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 ***************************************************************/

package param

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	viperConfig atomic.Pointer[Config]
	configMutex sync.Mutex
)

// Refresh reloads the cached configuration from viper's global instance.
//
// The param accessors read from an atomic cached Config for performance.
// Code that mutates configuration through the global viper APIs must call
// Refresh afterwards to keep the accessors consistent with viper.
func Refresh() (*Config, error) {
	configMutex.Lock()
	defer configMutex.Unlock()
	newConfig, err := DecodeConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	viperConfig.Store(newConfig)
	return newConfig, nil
}

// BindAllParameters binds every known key to its environment variable so
// env-only overrides show up in AllSettings.
func BindAllParameters(v *viper.Viper) {
	if v == nil {
		return
	}
	for _, key := range allParameterNames {
		_ = v.BindEnv(key)
	}
}

// stringToSliceHookFunc splits strings on commas, or on whitespace when
// there is no comma, so STSCTL_REPORT_JOBSTATUSES="ENABLED,DISABLED" decodes
// into a slice.
func stringToSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Kind, t reflect.Kind, data interface{}) (interface{}, error) {
		if f != reflect.String || t != reflect.Slice {
			return data, nil
		}

		raw := strings.Trim(data.(string), `"'`)
		if raw == "" {
			return []string{}, nil
		}

		var parts []string
		if strings.Contains(raw, ",") {
			parts = strings.Split(raw, ",")
		} else {
			parts = strings.Fields(raw)
		}
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result, nil
	}
}

// DecodeConfig decodes the provided viper instance into a new Config
// without touching the cached one.
func DecodeConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.New("nil viper instance")
	}
	BindAllParameters(v)
	settings := v.AllSettings()
	mergeKnownKeyOverrides(settings, v)

	newConfig := new(Config)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToSliceHookFunc(),
		),
		MatchName: func(mapKey, fieldName string) bool {
			return strings.EqualFold(mapKey, fieldName)
		},
		Result: newConfig,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	return newConfig, nil
}

func mergeKnownKeyOverrides(settings map[string]any, v *viper.Viper) {
	// AllSettings may omit values that only come from flag bindings; overlay
	// every known key so the snapshot agrees with viper.Get.
	for _, key := range allParameterNames {
		val := v.Get(key)
		if val == nil {
			continue
		}
		setLowercasePath(settings, strings.Split(key, "."), val)
	}
}

func setLowercasePath(root map[string]any, path []string, val any) {
	if len(path) == 0 {
		return
	}

	m := root
	for _, part := range path[:len(path)-1] {
		k := strings.ToLower(part)
		if nextMap, ok := m[k].(map[string]any); ok {
			m = nextMap
			continue
		}
		next := make(map[string]any)
		m[k] = next
		m = next
	}
	m[strings.ToLower(path[len(path)-1])] = val
}

// GetUnmarshaledConfig returns the cached configuration.
func GetUnmarshaledConfig() (*Config, error) {
	config := viperConfig.Load()
	if config == nil {
		return nil, errors.New("Config hasn't been unmarshaled yet.")
	}
	return config, nil
}

// getOrCreateConfig returns the cached config, decoding one from viper on
// first use.
func getOrCreateConfig() *Config {
	if config := viperConfig.Load(); config != nil {
		return config
	}

	configMutex.Lock()
	defer configMutex.Unlock()
	if config := viperConfig.Load(); config != nil {
		return config
	}
	newConfig, err := DecodeConfig(viper.GetViper())
	if err != nil {
		return new(Config)
	}
	viperConfig.Store(newConfig)
	return newConfig
}

// Set sets a parameter in viper and refreshes the cached config.
func Set(key string, value interface{}) error {
	return MultiSet(map[string]interface{}{key: value})
}

// MultiSet sets several parameters at once, refreshing the cached config
// only once.
func MultiSet(keyValues map[string]interface{}) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	for key, value := range keyValues {
		viper.Set(key, value)
	}
	newConfig, err := DecodeConfig(viper.GetViper())
	if err != nil {
		return err
	}
	viperConfig.Store(newConfig)
	return nil
}

// Reset clears viper and the cached config. Intended for tests.
func Reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	viper.Reset()
	viperConfig.Store(nil)
}
