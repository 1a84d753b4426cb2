package managers

import (
	"context"
	"testing"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadget-server/internal/config"
)

func TestMailManagerSkipsOutsideProduction(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	mailMgr := NewMailManager(cfg)

	assert.NoError(t, mailMgr.SendVerificationMail(context.Background(), "ada@example.com", "Ada", "http://localhost/verify/1/abc"))
	assert.NoError(t, mailMgr.SendPasswordResetMail(context.Background(), "ada@example.com", "Ada", "http://localhost/resetpassword/1/abc"))
	assert.NoError(t, mailMgr.SendConfirmationMail(context.Background(), "ada@example.com", "Ada"))
}

func TestMailManagerSendsInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MAILGUN_DOMAIN", "mailgun.test")
	t.Setenv("MAILGUN_API_KEY", "key")
	cfg, err := config.Load()
	require.NoError(t, err)

	server := mailgun.NewMockServer()
	defer server.Stop()

	mailMgr := NewMailManager(cfg).(*MailManager)
	mailMgr.Mailgun.SetAPIBase(server.URL())

	err = mailMgr.SendVerificationMail(context.Background(), "ada@example.com", "Ada", "https://shop.example.com/verify/1/abc")
	assert.NoError(t, err)
}
