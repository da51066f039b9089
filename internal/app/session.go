package app

import "hotel-erp/internal/core"

func (s Service) Login() error {
	return core.NewSessionGate(s.State).Login()
}

func (s Service) Logout() error {
	return core.NewSessionGate(s.State).Logout()
}

func (s Service) SessionStatus() (SessionResult, error) {
	loggedIn, err := core.NewSessionGate(s.State).IsLoggedIn()
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{LoggedIn: loggedIn}, nil
}
