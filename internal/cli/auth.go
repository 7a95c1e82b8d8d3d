package cli

import (
	"context"
	"fmt"

	"github.com/scentora/storefront/internal/auth"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// enterIdentifier feeds the typed identifier into the machine, switching the
// channel to mobile when the user typed a phone number.
func (a *App) enterIdentifier(id string) {
	if isDigits(id) {
		a.machine.SetChannel(auth.ChannelMobile)
		a.machine.EnterMobile(id)
		return
	}
	a.machine.SetChannel(auth.ChannelEmail)
	a.machine.EnterEmail(id)
}

// promptCode collects the one-time code and runs verification. The machine
// owns the outcome; we only relay its message.
func (a *App) promptCode(ctx context.Context) error {
	code, err := GetDigits(a.reader, fmt.Sprintf("Enter the %d-digit code", auth.OTPLength), a.out)
	if err != nil {
		return err
	}
	idx := 0
	for _, r := range code {
		idx = a.machine.EnterDigit(idx, r)
	}
	a.machine.VerifyCode(ctx)
	if msg := a.machine.Message(); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

// Login signs the user in, with a one-time code by default or with a
// password on request.
func (a *App) Login(ctx context.Context) error {
	a.machine.SetTab(auth.TabLogin)

	id, err := GetSimpleText(a.reader, "Enter email or mobile", a.out)
	if err != nil {
		return err
	}
	a.enterIdentifier(id)

	usePw, err := GetSimpleText(a.reader, "Sign in with password? [y/N]", a.out)
	if err != nil {
		return err
	}

	if usePw == "y" || usePw == "Y" {
		a.machine.SetUsePassword(true)
		pw, err := GetPassword(a.out)
		if err != nil {
			return err
		}
		a.machine.EnterPassword(pw)
		a.machine.PasswordLogin(ctx)
	} else {
		a.machine.RequestCode(ctx)
		if msg := a.machine.Message(); msg != "" {
			fmt.Fprintln(a.out, msg)
		}
		if a.machine.Tab() == auth.TabOTP {
			if err := a.promptCode(ctx); err != nil {
				return err
			}
		}
	}

	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Signed in")
	} else if msg := a.machine.Message(); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	return nil
}

// Register creates an account, verified with a one-time code.
func (a *App) Register(ctx context.Context) error {
	a.machine.SetTab(auth.TabRegister)

	name, err := GetSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	a.machine.EnterName(name)

	id, err := GetSimpleText(a.reader, "Enter email or mobile", a.out)
	if err != nil {
		return err
	}
	a.enterIdentifier(id)

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	a.machine.EnterPassword(pw)

	a.machine.RequestCode(ctx)
	if msg := a.machine.Message(); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	if a.machine.Tab() == auth.TabOTP {
		if err := a.promptCode(ctx); err != nil {
			return err
		}
	}

	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Account created")
	}
	return nil
}

// ResetPassword runs the forgotten-password flow: request a code, confirm it,
// then sign in again from the login tab.
func (a *App) ResetPassword(ctx context.Context) error {
	a.machine.SetTab(auth.TabReset)

	id, err := GetSimpleText(a.reader, "Enter email or mobile", a.out)
	if err != nil {
		return err
	}
	a.enterIdentifier(id)

	a.machine.RequestCode(ctx)
	if msg := a.machine.Message(); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	if a.machine.Tab() == auth.TabOTP {
		if err := a.promptCode(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Logout signs the user out. The cart falls back to the guest snapshot.
func (a *App) Logout(ctx context.Context) error {
	a.machine.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
