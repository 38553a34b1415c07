package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PipelineConfig defines the status-transition tables for the recruitment
// pipeline. Forward moves follow the normal advance flow; backward moves are
// the reason-driven decision flow. Both directions live in one structure so
// there is a single source of truth for what a legal transition is.
type PipelineConfig struct {
	Forward  map[string][]string `mapstructure:"forward"`
	Backward map[string][]string `mapstructure:"backward"`
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Forward: map[string][]string{
			"submitted":   {"interview", "shortlisted"},
			"interview":   {"shortlisted"},
			"shortlisted": {},
		},
		Backward: map[string][]string{
			"submitted":   {},
			"interview":   {"submitted"},
			"shortlisted": {"interview"},
		},
	}
}

type PipelineConfigHolder struct {
	current atomic.Value // holds PipelineConfig
}

// NewPipelineConfigHolder loads pipeline.yml (if present) and watches it for
// changes. Invalid updates are ignored so a bad edit never breaks a running
// instance.
func NewPipelineConfigHolder() (*PipelineConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pipeline")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/hireline/config")
	v.AddConfigPath("/etc/hireline")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HIRELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPipelineConfig()
		v.SetDefault("pipeline.forward", defaults.Forward)
		v.SetDefault("pipeline.backward", defaults.Backward)
	}

	var cfg PipelineConfig
	if err := v.UnmarshalKey("pipeline", &cfg); err != nil {
		return nil, err
	}
	if err := validatePipelineConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PipelineConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PipelineConfig
		if err := v.UnmarshalKey("pipeline", &updated); err != nil {
			log.Printf("[pipeline-config] reload failed: %v", err)
			return
		}
		if err := validatePipelineConfig(updated); err != nil {
			log.Printf("[pipeline-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pipeline-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPipelineConfigHolder wraps a fixed config, mostly for tests.
func NewStaticPipelineConfigHolder(cfg PipelineConfig) *PipelineConfigHolder {
	holder := &PipelineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PipelineConfigHolder) Get() PipelineConfig {
	return h.current.Load().(PipelineConfig)
}

func validatePipelineConfig(cfg PipelineConfig) error {
	if len(cfg.Forward) == 0 {
		return errors.New("pipeline.forward cannot be empty")
	}
	for from, targets := range cfg.Forward {
		for _, to := range targets {
			if from == to {
				return errors.New("pipeline.forward contains a self-transition")
			}
		}
	}
	for from, targets := range cfg.Backward {
		for _, to := range targets {
			if from == to {
				return errors.New("pipeline.backward contains a self-transition")
			}
		}
	}
	return nil
}
