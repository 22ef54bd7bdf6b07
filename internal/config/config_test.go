package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReportsMissingCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg := &Config{}
	err := cfg.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "DB_CONNECTION_STRING")
		assert.Contains(t, err.Error(), "MIDTRANS_SERVER_KEY")
		assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	}
}

func TestValidatePassesWithRequiredCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := &Config{}
	cfg.Database.Connection = "postgres://localhost/channelpass"
	cfg.Gateway.ServerKey = "SB-Mid-server-key"
	cfg.Telegram.BotToken = "123456:bot-token"

	assert.NoError(t, cfg.Validate())
}
