package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/pkg/email"
	"github.com/dmitrymomot/twofactor/pkg/notify"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, d twofactor.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

var now = time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

func delivery(method twofactor.Method, dest string) twofactor.Delivery {
	return twofactor.Delivery{
		PrincipalID: "user-1",
		Method:      method,
		Destination: dest,
		Code:        "042137",
		ExpiresAt:   now.Add(10 * time.Minute),
	}
}

func TestEmailNotifier(t *testing.T) {
	t.Parallel()

	t.Run("sends rendered code", func(t *testing.T) {
		t.Parallel()
		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.SendTo == "alice@example.com" &&
				p.Subject == "Your Acme verification code" &&
				p.Tag == notify.EmailTag &&
				bytes.Contains([]byte(p.BodyHTML), []byte("042137")) &&
				bytes.Contains([]byte(p.BodyHTML), []byte("10 minutes"))
		})).Return(nil).Once()

		n := notify.NewEmailNotifier(sender, "Acme", notify.WithEmailClock(func() time.Time { return now }))
		require.NoError(t, n.Notify(context.Background(), delivery(twofactor.MethodEmail, "alice@example.com")))
		sender.AssertExpectations(t)
	})

	t.Run("rejects invalid address", func(t *testing.T) {
		t.Parallel()
		sender := &MockSender{}
		n := notify.NewEmailNotifier(sender, "Acme")

		err := n.Notify(context.Background(), delivery(twofactor.MethodEmail, "+15551234567"))
		require.ErrorIs(t, err, notify.ErrInvalidDestination)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("propagates sender error", func(t *testing.T) {
		t.Parallel()
		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(email.ErrFailedToSendEmail).Once()

		n := notify.NewEmailNotifier(sender, "Acme")
		err := n.Notify(context.Background(), delivery(twofactor.MethodEmail, "alice@example.com"))
		require.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	t.Run("masks code by default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		n := notify.NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)), false)

		require.NoError(t, n.Notify(context.Background(), delivery(twofactor.MethodSMS, "+15551234567")))
		out := buf.String()
		assert.Contains(t, out, "code=******")
		assert.NotContains(t, out, "042137")
		assert.Contains(t, out, "destination=********4567")
		assert.Contains(t, out, "method=sms")
	})

	t.Run("reveals code when asked", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		n := notify.NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)), true)

		require.NoError(t, n.Notify(context.Background(), delivery(twofactor.MethodSMS, "+15551234567")))
		assert.Contains(t, buf.String(), "code=042137")
	})

	t.Run("requires destination", func(t *testing.T) {
		t.Parallel()
		n := notify.NewLogNotifier(nil, false)
		err := n.Notify(context.Background(), delivery(twofactor.MethodSMS, " "))
		assert.ErrorIs(t, err, notify.ErrInvalidDestination)
	})
}

func TestRouter(t *testing.T) {
	t.Parallel()

	emailN := &MockNotifier{}
	smsN := &MockNotifier{}
	r := notify.NewRouter(map[twofactor.Method]twofactor.Notifier{
		twofactor.MethodEmail: emailN,
		twofactor.MethodSMS:   smsN,
		twofactor.MethodTOTP:  nil,
	})

	d := delivery(twofactor.MethodSMS, "+15551234567")
	smsN.On("Notify", mock.Anything, d).Return(errors.New("gateway down")).Once()

	err := r.Notify(context.Background(), d)
	require.EqualError(t, err, "gateway down")
	smsN.AssertExpectations(t)
	emailN.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)

	err = r.Notify(context.Background(), delivery(twofactor.MethodTOTP, "x"))
	assert.ErrorIs(t, err, notify.ErrNoRoute)
}

func TestRouter_WithService(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	var sent email.SendEmailParams
	sender.On("SendEmail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(email.SendEmailParams) }).
		Return(nil).Once()

	svc := twofactor.NewService(
		twofactor.NewMemoryTokenStore(),
		twofactor.NewMemorySecretStore(),
		nil,
		twofactor.WithNotifier(notify.NewRouter(map[twofactor.Method]twofactor.Notifier{
			twofactor.MethodEmail: notify.NewEmailNotifier(sender, "Acme"),
		})),
	)

	_, err := svc.SendToken(context.Background(), "user-1", twofactor.MethodEmail, "alice@example.com")
	require.NoError(t, err)
	sender.AssertExpectations(t)
	assert.Equal(t, "alice@example.com", sent.SendTo)

	_, err = svc.SendToken(context.Background(), "user-1", twofactor.MethodSMS, "+15551234567")
	require.ErrorIs(t, err, twofactor.ErrDelivery)
	assert.ErrorIs(t, err, notify.ErrNoRoute)
}
