package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticketLine struct {
	PlayTitle string
	HallName  string
	ShowTime  string
	Row       int
	Seat      int
}

func TestRenderReservationConfirmation(t *testing.T) {
	data := map[string]any{
		"reservationID": 42,
		"tickets": []ticketLine{
			{PlayTitle: "Hamlet", HallName: "Blue <Hall>", ShowTime: "2024-03-15 19:00 UTC", Row: 2, Seat: 7},
		},
	}

	subject, plainBody, htmlBody, err := render("reservation_confirmation.tmpl", data)
	require.NoError(t, err)

	assert.Equal(t, "Your reservation #42 is confirmed", subject)
	assert.Contains(t, plainBody, "- Hamlet, Blue <Hall>, 2024-03-15 19:00 UTC: row 2, seat 7")
	assert.Contains(t, htmlBody, "Blue &lt;Hall&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := render("missing.tmpl", nil)
	assert.Error(t, err)
}

func TestMockMailerRecordsEmails(t *testing.T) {
	m := NewMockMailer()

	require.NoError(t, m.Send("jane@example.com", "reservation_confirmation.tmpl", 1))

	emails := m.GetSentEmails()
	require.Len(t, emails, 1)
	assert.Equal(t, "jane@example.com", emails[0].Recipient)

	m.Reset()
	assert.Empty(t, m.GetSentEmails())
}
