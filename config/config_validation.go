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

package config

import (
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/pelicanplatform/stsctl/param"
)

// findFieldByTag searches for a struct field by the value of a tag. Used to
// check viper keys against the Config struct so users hear about typos.
func findFieldByTag(t reflect.Type, tagKey, tagValue string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get(tagKey) == tagValue {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

// validateConfigKeys returns the configured keys, from viper or from
// STSCTL_ environment variables, that the Config struct does not know.
func validateConfigKeys() []string {
	keys := viper.AllKeys()

	// AutomaticEnv lookups do not show up in AllKeys.
	for _, env := range os.Environ() {
		name := strings.SplitN(env, "=", 2)[0]
		if !strings.HasPrefix(name, EnvPrefix+"_") {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix+"_"))
		keys = append(keys, strings.ReplaceAll(key, "_", "."))
	}

	configType := reflect.TypeOf(param.Config{})
	unknown := map[string]struct{}{}
	for _, key := range keys {
		parts := strings.Split(key, ".")
		// The --config flag is bound to viper but is not a parameter
		if len(parts) == 1 && parts[0] == "config" {
			continue
		}

		currentType := configType
		for _, part := range parts {
			field, present := findFieldByTag(currentType, "mapstructure", part)
			if !present {
				unknown[key] = struct{}{}
				break
			}
			if field.Type.Kind() != reflect.Struct {
				break
			}
			currentType = field.Type
		}
	}

	result := make([]string, 0, len(unknown))
	for key := range unknown {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
