package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URI", "postgres://localhost/careportal")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ADMIN_CHAT_IDS", "1001, 1002")
	t.Setenv("DIGEST_CRON", "")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/careportal", cfg.DatabaseURI)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, []int64{1001, 1002}, cfg.AdminChatIDs)
	assert.Equal(t, "0 8 * * *", cfg.DigestCron)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidAdminIDs(t *testing.T) {
	t.Setenv("ADMIN_CHAT_IDS", "1001,abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseChatIDs_Empty(t *testing.T) {
	ids, err := parseChatIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
