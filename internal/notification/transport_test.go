package notification

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gymdesk/internal/config"

	brevo "github.com/getbrevo/brevo-go/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	got []*gomail.Message
	err error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.got = append(f.got, m...)
	return f.err
}

type fakeBrevo struct {
	got  brevo.SendSmtpEmail
	resp *http.Response
	err  error
}

func (f *fakeBrevo) SendTransacEmail(_ context.Context, email brevo.SendSmtpEmail) (brevo.CreateSmtpEmail, *http.Response, error) {
	f.got = email
	return brevo.CreateSmtpEmail{}, f.resp, f.err
}

var receipt = Message{
	From:     "desk@gym.local",
	FromName: "GymDesk",
	To:       []string{"a@gym.local", "b@gym.local"},
	Subject:  "Receipt",
	HTML:     "<p>Paid</p>",
	Text:     "Paid",
	Template: TemplateReceipt,
}

func TestSMTPTransport_Send(t *testing.T) {
	d := &fakeDialer{}
	tr := &SMTPTransport{dialer: d}

	require.NoError(t, tr.Send(context.Background(), receipt))
	require.Len(t, d.got, 1)
	assert.Equal(t, []string{"a@gym.local", "b@gym.local"}, d.got[0].GetHeader("To"))
	assert.Equal(t, []string{"Receipt"}, d.got[0].GetHeader("Subject"))
}

func TestSMTPTransport_CancelledContext(t *testing.T) {
	d := &fakeDialer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, (&SMTPTransport{dialer: d}).Send(ctx, receipt), context.Canceled)
	assert.Empty(t, d.got)
}

func TestBrevoTransport_Send(t *testing.T) {
	api := &fakeBrevo{}
	tr := &BrevoTransport{api: api}

	require.NoError(t, tr.Send(context.Background(), receipt))
	assert.Equal(t, "desk@gym.local", api.got.Sender.Email)
	require.Len(t, api.got.To, 2)
	assert.Equal(t, "b@gym.local", api.got.To[1].Email)
	assert.Equal(t, "<p>Paid</p>", api.got.HtmlContent)
	assert.Equal(t, []string{TemplateReceipt}, api.got.Tags)
}

func TestBrevoTransport_APIError(t *testing.T) {
	api := &fakeBrevo{resp: &http.Response{StatusCode: http.StatusUnauthorized}, err: errors.New("unauthorized")}

	err := (&BrevoTransport{api: api}).Send(context.Background(), receipt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(&config.Config{EmailTransport: config.TransportSMTP, SMTPHost: "localhost", SMTPPort: 25})
	require.NoError(t, err)
	assert.Equal(t, "smtp", tr.Name())

	tr, err = NewTransport(&config.Config{EmailTransport: config.TransportBrevo, BrevoAPIKey: "xkeysib"})
	require.NoError(t, err)
	assert.Equal(t, "brevo", tr.Name())

	_, err = NewTransport(&config.Config{EmailTransport: "pigeon"})
	assert.ErrorIs(t, err, config.ErrUnknownTransport)
}
