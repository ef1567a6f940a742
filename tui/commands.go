package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"cine-booking-cli/booking"
	"cine-booking-cli/model"
	"cine-booking-cli/service"
	"cine-booking-cli/store"
)

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type redirectMsg struct{}

type authMsg struct {
	status model.AuthStatus
	err    error
}

type accountMsg struct {
	res model.AccountResponse
	err error
}

type logoutMsg struct {
	message string
	err     error
}

type purchaseMsg struct {
	conf booking.Confirmation
	err  error
}

type profileMsg struct {
	user model.User
	err  error
}

type profileSavedMsg struct {
	res model.AccountResponse
	err error
}

type passwordMsg struct {
	message string
	err     error
}

type purchasesMsg struct {
	purchases []model.Purchase
	offline   bool
	err       error
}

type cancelMsg struct {
	res model.PurchaseResponse
	err error
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithStateCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func (m appModel) checkAuthCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.client.CheckAuth(context.Background())
		return authMsg{status: status, err: err}
	}
}

func (m appModel) loginCmd(req model.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Login(context.Background(), req)
		return accountMsg{res: res, err: err}
	}
}

func (m appModel) registerCmd(req model.RegisterRequest, confirm string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Register(context.Background(), req, confirm)
		return accountMsg{res: res, err: err}
	}
}

func (m appModel) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		message, err := m.client.Logout(context.Background())
		return logoutMsg{message: message, err: err}
	}
}

func (m appModel) submitCmd(session booking.Session) tea.Cmd {
	return func() tea.Msg {
		conf, err := m.submitter.Submit(context.Background(), &session)
		return purchaseMsg{conf: conf, err: err}
	}
}

func (m appModel) fetchProfileCmd() tea.Cmd {
	return func() tea.Msg {
		user, err := m.client.Profile(context.Background())
		return profileMsg{user: user, err: err}
	}
}

func (m appModel) saveProfileCmd(profile model.Profile) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.UpdateProfile(context.Background(), profile)
		return profileSavedMsg{res: res, err: err}
	}
}

func (m appModel) changePasswordCmd(current string, next string, confirm string) tea.Cmd {
	return func() tea.Msg {
		message, err := m.client.ChangePassword(context.Background(), current, next, confirm)
		return passwordMsg{message: message, err: err}
	}
}

// fetchPurchasesCmd serves a fresh cache first and falls back to a stale one
// when the API cannot be reached.
func (m appModel) fetchPurchasesCmd(username string) tea.Cmd {
	ttl := m.cfg.HistoryTTL
	return func() tea.Msg {
		if cached, fresh, err := store.LoadPurchaseCache(username, ttl); err == nil && fresh && cached != nil {
			return purchasesMsg{purchases: cached}
		}
		purchases, err := m.client.Purchases(context.Background())
		if err != nil {
			if service.IsConnection(err) {
				if cached, _, cacheErr := store.LoadPurchaseCache(username, ttl); cacheErr == nil && len(cached) > 0 {
					return purchasesMsg{purchases: cached, offline: true}
				}
			}
			return purchasesMsg{err: err}
		}
		_ = store.SavePurchaseCache(username, purchases)
		return purchasesMsg{purchases: purchases}
	}
}

func (m appModel) cancelPurchaseCmd(purchase model.Purchase) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.CancelKnownPurchase(context.Background(), purchase)
		return cancelMsg{res: res, err: err}
	}
}
