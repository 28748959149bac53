package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for wn configuration.
const envPrefix = "WN"

// Keys lists every configuration key in resolution order.
var Keys = []string{
	"source",
	"target",
	"entry",
	"pagesDir",
	"runtime.compatModule",
	"runtime.package",
	"runtime.modulesDir",
	"log.timestamps",
	"watch.debounce",
}

// Loader handles loading and merging configuration from multiple sources.
// Precedence: flag > env (WN_*) > config file > default.
type Loader struct {
	v     *viper.Viper
	file  *viper.Viper
	flags map[string]any
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("source", def.Source)
	v.SetDefault("target", def.Target)
	v.SetDefault("entry", def.Entry)
	v.SetDefault("pagesDir", def.PagesDir)
	v.SetDefault("runtime.compatModule", def.Runtime.CompatModule)
	v.SetDefault("runtime.package", def.Runtime.Package)
	v.SetDefault("runtime.modulesDir", def.Runtime.ModulesDir)
	v.SetDefault("log.timestamps", true)
	v.SetDefault("watch.debounce", def.Watch.Debounce)

	return &Loader{v: v, file: viper.New(), flags: make(map[string]any)}
}

// SetFlag records a value given on the command line. Flags win over
// every other source.
func (l *Loader) SetFlag(key string, value any) {
	l.flags[key] = value
	l.v.Set(key, value)
}

// Load loads configuration from the given file path.
// A missing file is not an error; defaults and env vars still apply.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		expandedPath, err := ExpandPath(configFile)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}

		l.file.SetConfigFile(expandedPath)
		l.file.SetConfigType("yaml")
		if err := l.file.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
		if err := l.v.MergeConfigMap(l.file.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Resolved reports the value and source of every key. Call after Load.
func (l *Loader) Resolved() []ResolvedValue {
	values := make([]ResolvedValue, 0, len(Keys))
	for _, key := range Keys {
		rv := ResolvedValue{
			Key:      key,
			Value:    l.v.Get(key),
			Source:   l.sourceOf(key),
			Shadowed: make(map[ConfigSource]any),
		}
		if env, ok := os.LookupEnv(EnvName(key)); ok && rv.Source == SourceFlag {
			rv.Shadowed[SourceEnv] = env
		}
		if l.file.IsSet(key) && rv.Source != SourceConfig {
			rv.Shadowed[SourceConfig] = l.file.Get(key)
		}
		values = append(values, rv)
	}
	return values
}

func (l *Loader) sourceOf(key string) ConfigSource {
	if _, ok := l.flags[key]; ok {
		return SourceFlag
	}
	if _, ok := os.LookupEnv(EnvName(key)); ok {
		return SourceEnv
	}
	if l.file.IsSet(key) {
		return SourceConfig
	}
	return SourceDefault
}

// EnvName returns the environment variable bound to a key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
