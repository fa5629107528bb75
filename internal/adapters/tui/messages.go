package tui

import (
	"github.com/bnema/autumn-cli/internal/domain"
)

type customersLoadedMsg struct {
	page domain.CustomerPage
	err  error
}

type customerLoadedMsg struct {
	id   domain.CustomerID
	view domain.CustomerView
	err  error
}

type organizationLoadedMsg struct {
	org domain.Organization
	err error
}

type credentialSavedMsg struct {
	err error
}

type customerUpdatedMsg struct {
	id   domain.CustomerID
	view domain.CustomerView
	err  error
}

type customerDeletedMsg struct {
	id  domain.CustomerID
	err error
}

type themeChangedMsg struct {
	theme domain.Theme
	err   error
}

type sessionClearedMsg struct {
	err error
}

// dashboardTickMsg carries the refresh generation that scheduled it. Ticks
// from an older generation are dropped.
type dashboardTickMsg struct {
	generation int
}
