package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
whatsapp:
  verify_token: "myverifytoken123"
  order_phone: "919876543210"
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", conf.Env)
	assert.Equal(t, "8080", conf.Listen.Port)
	assert.Equal(t, "v22.0", conf.WhatsApp.ApiVersion)
	assert.Equal(t, 12, conf.Instagram.MaxPosts)
	assert.Equal(t, 15*time.Second, conf.Instagram.Timeout)
	assert.Equal(t, 4, conf.Worker.Count)
	assert.Equal(t, 2*time.Minute, conf.Worker.JobTimeout)
	assert.False(t, conf.Mongo.Enabled)
	assert.Equal(t, 6*time.Hour, conf.Redis.TTL)
}

func TestLoad_MissingVerifyToken(t *testing.T) {
	path := writeConfig(t, `
env: local
`)
	t.Setenv("VERIFY_TOKEN", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VerifyToken")
}

func TestLoad_OrderPhone(t *testing.T) {
	t.Setenv("ORDER_PHONE", "")

	path := writeConfig(t, `
whatsapp:
  verify_token: "secret"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OrderPhone")

	path = writeConfig(t, `
whatsapp:
  verify_token: "secret"
  order_phone: "+91 98765 43210"
`)
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OrderPhone")

	t.Setenv("ORDER_PHONE", "919876543210")
	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "919876543210", conf.WhatsApp.OrderPhone)
}

func TestLoad_CloudinaryRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `
whatsapp:
  verify_token: "secret"
cloudinary:
  enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CloudName")
}

func TestLoad_WorkerBounds(t *testing.T) {
	path := writeConfig(t, `
whatsapp:
  verify_token: "secret"
worker:
  count: 100
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Count")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
whatsapp:
  verify_token: "from-file"
  order_phone: "919876543210"
`)
	t.Setenv("VERIFY_TOKEN", "from-env")
	t.Setenv("PORT", "9100")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", conf.WhatsApp.VerifyToken)
	assert.Equal(t, "9100", conf.Listen.Port)
}
