package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentDefaultsAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DMCHAT_API_URL", "http://chat.example:8080")
	t.Setenv("DMCHAT_HTTP_TIMEOUT", "5s")
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	s := Current()

	assert.Equal(t, "http://chat.example:8080", s.APIURL)
	assert.Equal(t, "http://localhost:9300", s.DatamonkeyURL)
	assert.Equal(t, 5*time.Second, s.HTTPTimeout)
	assert.Empty(t, s.RegistryURL)
	assert.Equal(t, filepath.Join(Dir(), "logs", "dmchat.log"), s.LogFile)
}

func TestSetPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	require.NoError(t, Set(KeyRegistryURL, "https://registry.example/registry.json"))

	data, err := os.ReadFile(FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "registry.example")

	viper.Reset()
	Load()
	assert.Equal(t, "https://registry.example/registry.json", Current().RegistryURL)
}
