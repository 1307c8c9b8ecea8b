package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMailerConfigured(t *testing.T) {
	require.False(t, Mailer{}.configured())
	require.False(t, Mailer{Host: "smtp.example.com"}.configured())
	require.True(t, Mailer{
		Host:     "smtp.example.com",
		Username: "mailer",
		Password: "secret",
	}.configured())
}

func TestUnconfiguredMailerSwallowsSends(t *testing.T) {
	m := Mailer{FromEmail: "no-reply@example.com", FromName: "Legacy Voices"}

	require.NoError(t, m.SendSubmissionReceived("a@x.com", "A", "T"))
	require.NoError(t, m.SendApproved("a@x.com", "A", "T"))
	require.NoError(t, m.SendRejected("a@x.com", "A", "T", "too short"))
	require.NoError(t, m.SendRejected("a@x.com", "A", "T", ""))
}

func TestUnconfiguredMailerCopiesAdminAddress(t *testing.T) {
	m := Mailer{AdminNotify: "admin@example.com"}
	require.NoError(t, m.SendSubmissionReceived("a@x.com", "A", "T"))
}
