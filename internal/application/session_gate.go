package application

import (
	"context"

	"github.com/bnema/autumn-cli/internal/domain"
)

type SessionGate struct {
	credentials *CredentialService
}

func NewSessionGate(credentials *CredentialService) *SessionGate {
	return &SessionGate{credentials: credentials}
}

// Resolve picks the launch route. A store failure routes to setup and is
// returned so the caller can report it.
func (g *SessionGate) Resolve(ctx context.Context) (domain.Route, error) {
	_, found, err := g.credentials.Read(ctx)
	if err != nil {
		return domain.RouteSetup, err
	}
	if !found {
		return domain.RouteSetup, nil
	}

	return domain.RouteDashboard, nil
}
