package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/toolgate-mcp-server/internal/dsl"
)

func TestEmbeddedConfigsParse(t *testing.T) {
	names := Names()
	require.Contains(t, names, "default.yaml")

	for _, name := range names {
		raw, err := Load(name)
		require.NoError(t, err, name)
		_, err = dsl.Load(raw)
		assert.NoError(t, err, name)
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("missing.yaml")
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
