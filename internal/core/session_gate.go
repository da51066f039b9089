package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"hotel-erp/internal/ports"
)

// SessionKey holds the login flag in the key-value store.
const SessionKey = "hotel_logged_in"

const sessionLoggedIn = "true"

// SessionGate is the client-side login flag. It grants nothing on the
// backend; ERP calls still authenticate with the configured API token.
type SessionGate struct {
	Store ports.KeyValuePort
}

func NewSessionGate(store ports.KeyValuePort) SessionGate {
	return SessionGate{Store: store}
}

func (g SessionGate) Login() error {
	if err := g.requireStore(); err != nil {
		return err
	}
	return g.Store.Set(SessionKey, sessionLoggedIn)
}

func (g SessionGate) Logout() error {
	if err := g.requireStore(); err != nil {
		return err
	}
	return g.Store.Remove(SessionKey)
}

func (g SessionGate) IsLoggedIn() (bool, error) {
	if err := g.requireStore(); err != nil {
		return false, err
	}
	value, ok, err := g.Store.Get(SessionKey)
	if err != nil {
		return false, err
	}
	return ok && value == sessionLoggedIn, nil
}

func (g SessionGate) requireStore() error {
	if g.Store == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("session store is not configured")
	}
	return nil
}
