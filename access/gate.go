// Package access decides which pages the current user may open.
package access

import (
	"strings"
	"sync"

	"pos-service/models"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Gate is the single place page access is decided. It fails closed: without a
// resolved role every page is denied.
type Gate struct {
	mu    sync.RWMutex
	state State
	user  *models.User
	role  *models.Role
}

func NewGate() *Gate {
	return &Gate{}
}

// ResolveRole finds the role with the given name, ignoring case.
func ResolveRole(name string, roles []models.Role) (models.Role, bool) {
	for _, role := range roles {
		if strings.EqualFold(strings.TrimSpace(role.Name), strings.TrimSpace(name)) {
			return role, true
		}
	}
	return models.Role{}, false
}

// Login records the user and resolves their role. When no role matches, the
// gate stays unauthenticated and ErrRoleUnresolved is returned; the user is
// still reported by User so the terminal can say who is signed in.
func (g *Gate) Login(user models.User, roles []models.Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := user
	g.user = &u
	role, ok := ResolveRole(user.Role, roles)
	if !ok {
		g.role = nil
		g.state = Unauthenticated
		return models.ErrRoleUnresolved
	}
	role.Access = append([]models.Page(nil), role.Access...)
	g.role = &role
	g.state = Authenticated
	return nil
}

func (g *Gate) Logout() {
	g.reset()
}

// Expire is used when the backend rejects the session token.
func (g *Gate) Expire() {
	g.reset()
}

func (g *Gate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = Unauthenticated
	g.user = nil
	g.role = nil
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) User() (models.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return models.User{}, false
	}
	return *g.user, true
}

func (g *Gate) Role() (models.Role, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.role == nil {
		return models.Role{}, false
	}
	role := *g.role
	role.Access = append([]models.Page(nil), g.role.Access...)
	return role, true
}

// HasAccess reports whether the current role grants page.
func (g *Gate) HasAccess(page models.Page) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.state != Authenticated || g.role == nil {
		return false
	}
	for _, p := range g.role.Access {
		if p == page {
			return true
		}
	}
	return false
}

// HasAnyAccess reports whether at least one of pages is granted.
func (g *Gate) HasAnyAccess(pages ...models.Page) bool {
	for _, page := range pages {
		if g.HasAccess(page) {
			return true
		}
	}
	return false
}

// Pages lists the granted pages, empty when unauthenticated.
func (g *Gate) Pages() []models.Page {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.state != Authenticated || g.role == nil {
		return []models.Page{}
	}
	return append([]models.Page{}, g.role.Access...)
}
