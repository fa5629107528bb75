package domain

import (
	"fmt"
	"strings"
)

type Screen string

const (
	ScreenSetup     Screen = "setup"
	ScreenDashboard Screen = "dashboard"
	ScreenCustomer  Screen = "customer"
	ScreenSettings  Screen = "settings"
)

// Route is a screen boundary. CustomerID is only set for ScreenCustomer.
type Route struct {
	Screen     Screen
	CustomerID CustomerID
}

var (
	RouteSetup     = Route{Screen: ScreenSetup}
	RouteDashboard = Route{Screen: ScreenDashboard}
	RouteSettings  = Route{Screen: ScreenSettings}
)

func CustomerRoute(id CustomerID) Route {
	return Route{Screen: ScreenCustomer, CustomerID: id}
}

func (r Route) Path() string {
	if r.Screen == ScreenCustomer {
		return "/customer/" + string(r.CustomerID)
	}
	return "/" + string(r.Screen)
}

func (r Route) String() string {
	return r.Path()
}

func ParseRoute(path string) (Route, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	segments := strings.Split(trimmed, "/")

	switch {
	case len(segments) == 1 && segments[0] == string(ScreenSetup):
		return RouteSetup, nil
	case len(segments) == 1 && segments[0] == string(ScreenDashboard):
		return RouteDashboard, nil
	case len(segments) == 1 && segments[0] == string(ScreenSettings):
		return RouteSettings, nil
	case len(segments) == 2 && segments[0] == string(ScreenCustomer) && strings.TrimSpace(segments[1]) != "":
		return CustomerRoute(CustomerID(segments[1])), nil
	default:
		return Route{}, fmt.Errorf("%w: %q", ErrInvalidRoute, path)
	}
}
