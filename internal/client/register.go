package client

import (
	"context"
	"errors"
	"time"

	"foodrescue-platform/internal/model"
)

// RegisterState is the phone registration state machine position.
type RegisterState int

const (
	StateEnteringPhone RegisterState = iota
	StateCodeSent
	StateVerified
)

// Countdown window during which resend stays disabled after a send.
const resendWindow = 60 * time.Second

var (
	// ErrInvalidPhone means the phone failed the local format check. No
	// request was sent.
	ErrInvalidPhone = errors.New("please enter a valid phone number")

	// ErrInvalidCode means the code failed the local 6-digit check. No
	// request was sent.
	ErrInvalidCode = errors.New("please enter the 6-digit verification code")

	// ErrResendCooldown means resend was invoked before the countdown
	// reached zero.
	ErrResendCooldown = errors.New("please wait before resending")
)

// RegisterFlow drives the SMS registration state machine:
// EnteringPhone, CodeSent, Verified. Local validation failures never
// issue a request.
type RegisterFlow struct {
	api *Client

	// now is swappable so countdown behavior is testable.
	now func() time.Time

	state    RegisterState
	phone    string
	resendAt time.Time
	session  *model.User
	demoCode string
}

// NewRegisterFlow creates a flow in the EnteringPhone state.
func NewRegisterFlow(api *Client) *RegisterFlow {
	return &RegisterFlow{api: api, now: time.Now}
}

// State returns the current state machine position.
func (f *RegisterFlow) State() RegisterState {
	return f.state
}

// Phone returns the phone the code was sent to.
func (f *RegisterFlow) Phone() string {
	return f.phone
}

// DemoCode returns the echoed code, if the backend provided one.
func (f *RegisterFlow) DemoCode() string {
	return f.demoCode
}

// Session returns the user record after successful verification.
func (f *RegisterFlow) Session() *model.User {
	return f.session
}

// Countdown returns whole seconds until resend unlocks; zero once
// resend is available.
func (f *RegisterFlow) Countdown() int {
	if f.state != StateCodeSent {
		return 0
	}
	remaining := f.resendAt.Sub(f.now())
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// CanResend reports whether the resend control is enabled. Disabled if
// and only if the countdown is above zero.
func (f *RegisterFlow) CanResend() bool {
	return f.state == StateCodeSent && f.Countdown() == 0
}

// validPhone is the local format check: at least 10 digits, digits only.
func validPhone(phone string) bool {
	if len(phone) < 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validCode is the local format check: exactly 6 digits.
func validCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SendCode requests a verification code, transitioning EnteringPhone to
// CodeSent and starting the 60-second countdown.
func (f *RegisterFlow) SendCode(ctx context.Context, phone string) error {
	if !validPhone(phone) {
		return ErrInvalidPhone
	}

	result, err := f.api.SendSMSCode(ctx, phone)
	if err != nil {
		return err
	}

	f.state = StateCodeSent
	f.phone = phone
	f.resendAt = f.now().Add(resendWindow)
	f.demoCode = result.DemoCode
	return nil
}

// Resend requests a fresh code once the countdown reached zero and
// resets the countdown.
func (f *RegisterFlow) Resend(ctx context.Context) error {
	if f.state != StateCodeSent {
		return ErrInvalidPhone
	}
	if f.Countdown() > 0 {
		return ErrResendCooldown
	}

	result, err := f.api.SendSMSCode(ctx, f.phone)
	if err != nil {
		return err
	}

	f.resendAt = f.now().Add(resendWindow)
	f.demoCode = result.DemoCode
	return nil
}

// Verify checks the code, transitioning CodeSent to Verified. The
// returned outcome always routes to the dashboard with role CONSUMER.
func (f *RegisterFlow) Verify(ctx context.Context, code string) (*LoginOutcome, error) {
	if !validCode(code) {
		return nil, ErrInvalidCode
	}

	user, err := f.api.VerifySMSCode(ctx, f.phone, code)
	if err != nil {
		return nil, err
	}

	f.state = StateVerified
	f.session = user
	return &LoginOutcome{Session: user, Route: RouteHome, Role: RoleConsumer}, nil
}

// ChangePhone returns to EnteringPhone, discarding the in-flight code.
func (f *RegisterFlow) ChangePhone() {
	f.state = StateEnteringPhone
	f.phone = ""
	f.resendAt = time.Time{}
	f.demoCode = ""
}
