package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

func (a *App) register(ctx context.Context, _ []string) error {
	var reg models.Registration
	var err error
	if reg.Email, err = a.ask("E-mail"); err != nil {
		return err
	}
	if reg.FirstName, err = a.ask("First name"); err != nil {
		return err
	}
	if reg.LastName, err = a.ask("Last name"); err != nil {
		return err
	}

	var loggedIn bool
	err = a.askPassword("Password", func(pw string) error {
		reg.Password = pw
		loggedIn, err = a.store.RegisterUser(ctx, reg)
		reg.Password = ""
		return err
	})
	if err != nil {
		return err
	}

	if loggedIn {
		a.printf("Registered and logged in as %s.\n", reg.Email)
		return nil
	}
	a.printf("Registered. A verification code was sent to %s; run 'verify' to activate the account.\n", reg.Email)
	return nil
}

func (a *App) verifyEmail(ctx context.Context, args []string) error {
	email, err := a.argOrAsk(args, 0, "E-mail")
	if err != nil {
		return err
	}
	code, err := a.ask("Verification code")
	if err != nil {
		return err
	}

	left, err := a.verify.Verify(ctx, email, code)
	if err != nil {
		switch {
		case left == 0:
			a.println("No attempts left. Run 'resend-code' to get a new code.")
			return nil
		case left > 0:
			a.printf("Wrong code, %d attempt(s) left.\n", left)
			return nil
		}
		return err
	}
	a.println("E-mail verified. You can log in now.")
	return nil
}

func (a *App) resendCode(ctx context.Context, args []string) error {
	email, err := a.argOrAsk(args, 0, "E-mail")
	if err != nil {
		return err
	}
	attempts, err := a.verify.Resend(ctx, email)
	if err != nil {
		return err
	}
	a.printf("A new code was sent to %s (%d attempts).\n", email, attempts)
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := a.ask("E-mail")
	if err != nil {
		return err
	}
	err = a.askPassword("Password", func(pw string) error {
		return a.store.LoginUser(ctx, email, pw)
	})
	if err != nil {
		return err
	}
	a.greet()
	return nil
}

func (a *App) googleLogin(ctx context.Context, args []string) error {
	token, err := a.argOrAsk(args, 0, "Google access token")
	if err != nil {
		return err
	}
	if err := a.store.GoogleLogin(ctx, token); err != nil {
		return err
	}
	a.greet()
	return nil
}

func (a *App) adminLogin(ctx context.Context, _ []string) error {
	email, err := a.ask("Staff e-mail")
	if err != nil {
		return err
	}
	err = a.askPassword("Password", func(pw string) error {
		return a.admin.Login(ctx, email, pw)
	})
	if err != nil {
		return err
	}
	a.greet()
	return nil
}

func (a *App) greet() {
	u := a.store.User()
	if u == nil {
		a.println("Logged in.")
		return
	}
	a.printf("Logged in as %s.\n", displayName(u.FullName(), u.Email))
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.store.LogoutUser(ctx)
	a.println("Logged out.")
	return nil
}

func (a *App) profile(ctx context.Context, _ []string) error {
	if err := a.store.FetchUserData(ctx); err != nil {
		return err
	}
	u, d := a.store.User(), a.store.UserData()

	a.table("FIELD\tVALUE", func(w io.Writer) {
		if u != nil {
			fmt.Fprintf(w, "e-mail\t%s\n", u.Email)
			fmt.Fprintf(w, "name\t%s\n", u.FullName())
		}
		if d != nil {
			fmt.Fprintf(w, "joined\t%s\n", models.StringValue(d.DateJoined))
			fmt.Fprintf(w, "phone\t%s\n", models.StringValue(d.PhoneNumber))
			fmt.Fprintf(w, "address\t%s\n", strings.TrimSpace(strings.Join([]string{
				models.StringValue(d.Street), models.StringValue(d.Zip), models.StringValue(d.City),
			}, " ")))
			fmt.Fprintf(w, "image\t%s\n", models.StringValue(d.ImageURL))
		}
	})
	return nil
}

var errUnknownProfileField = errors.New("unknown profile field")

func (a *App) editProfile(ctx context.Context, _ []string) error {
	fields, err := GetFields(a.reader,
		"Fields to change: first_name, last_name, phone_number, city, street, zip, image=<path>", a.out)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		a.println("Nothing to change.")
		return nil
	}

	var upd models.ProfileUpdate
	for name, value := range fields {
		v := value
		switch name {
		case "first_name":
			upd.FirstName = &v
		case "last_name":
			upd.LastName = &v
		case "phone_number":
			upd.PhoneNumber = &v
		case "city":
			upd.City = &v
		case "street":
			upd.Street = &v
		case "zip":
			upd.Zip = &v
		case "image":
			img, closer, err := models.OpenUpload(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			defer closer.Close()
			upd.Image = img
		default:
			return fmt.Errorf("%w %q", errUnknownProfileField, name)
		}
	}

	if err := a.store.UpdateUserProfile(ctx, upd); err != nil {
		return err
	}
	a.println("Profile updated.")
	return nil
}

func (a *App) resetLink(ctx context.Context, args []string) error {
	email, err := a.argOrAsk(args, 0, "E-mail")
	if err != nil {
		return err
	}
	if err := a.store.SendResetLink(ctx, email); err != nil {
		return err
	}
	a.printf("A password reset link was sent to %s.\n", email)
	return nil
}

func (a *App) resetPassword(ctx context.Context, args []string) error {
	uid, err := a.argOrAsk(args, 0, "UID from the reset link")
	if err != nil {
		return err
	}
	token, err := a.argOrAsk(args, 1, "Token from the reset link")
	if err != nil {
		return err
	}
	err = a.askPassword("New password", func(pw string) error {
		return a.store.ResetPassword(ctx, uid, token, pw)
	})
	if err != nil {
		return err
	}
	a.println("Password changed. You can log in now.")
	return nil
}

func (a *App) refresh(ctx context.Context, _ []string) error {
	if err := a.store.UpdateToken(ctx); err != nil {
		return err
	}
	a.println("Session refreshed.")
	return nil
}
