package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineConfigIsValid(t *testing.T) {
	require.NoError(t, validatePipelineConfig(DefaultPipelineConfig()))
}

func TestValidatePipelineConfig(t *testing.T) {
	t.Run("rejects empty forward table", func(t *testing.T) {
		err := validatePipelineConfig(PipelineConfig{})
		assert.Error(t, err)
	})

	t.Run("rejects forward self-transition", func(t *testing.T) {
		err := validatePipelineConfig(PipelineConfig{
			Forward: map[string][]string{"submitted": {"submitted"}},
		})
		assert.Error(t, err)
	})

	t.Run("rejects backward self-transition", func(t *testing.T) {
		err := validatePipelineConfig(PipelineConfig{
			Forward:  map[string][]string{"submitted": {"interview"}},
			Backward: map[string][]string{"interview": {"interview"}},
		})
		assert.Error(t, err)
	})
}

func TestStaticPipelineConfigHolder(t *testing.T) {
	cfg := PipelineConfig{
		Forward: map[string][]string{"submitted": {"interview"}},
	}
	holder := NewStaticPipelineConfigHolder(cfg)
	assert.Equal(t, cfg, holder.Get())
}
