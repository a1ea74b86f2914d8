package goBlog

import "context"

// SignupForm is the raw signup submission.
type SignupForm struct {
	Username string
	Password string
	Verify   string
	Email    string
}

// RegistrationCompleter performs the final step of a signup once every
// field has passed validation.
type RegistrationCompleter interface {
	CompleteRegistration(ctx context.Context, form SignupForm) (*User, error)
}

// RegistrationCompleterFunc adapts a function to RegistrationCompleter.
type RegistrationCompleterFunc func(ctx context.Context, form SignupForm) (*User, error)

func (f RegistrationCompleterFunc) CompleteRegistration(ctx context.Context, form SignupForm) (*User, error) {
	return f(ctx, form)
}

// Signup validates form and hands it to completer. All failing fields are
// reported together in one *ValidationError. The username passed on is
// already folded. A nil completer yields ErrRegistrationIncomplete.
func (e *Engine) Signup(ctx context.Context, form SignupForm, completer RegistrationCompleter) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	form.Username = FoldUsername(form.Username)

	verr := validateCredentials(form.Username, form.Password, form.Email)
	if form.Password != form.Verify && ValidPassword(form.Password) {
		if verr == nil {
			verr = newValidationError()
		}
		verr.add(FieldVerify, MsgPasswordMismatch)
	}
	if verr != nil {
		e.metricInc(MetricSignupInvalid)
		return nil, verr
	}

	if completer == nil {
		return nil, ErrRegistrationIncomplete
	}
	return completer.CompleteRegistration(ctx, form)
}

// Registration returns the completer that creates the account through
// Register.
func (e *Engine) Registration() RegistrationCompleter {
	return registerCompleter{engine: e}
}

type registerCompleter struct {
	engine *Engine
}

func (c registerCompleter) CompleteRegistration(ctx context.Context, form SignupForm) (*User, error) {
	return c.engine.Register(ctx, form.Username, form.Password, form.Email)
}
