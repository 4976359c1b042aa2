// Package guard decides whether a visitor may see a protected page.
//
// The decision is made from the stored credential alone. The signature is not
// checked here; the remote API re-validates the token on every call.
package guard

import (
	"slices"
	"time"

	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectDefault
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDefault:
		return "redirect_default"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome Outcome
	// ClearSession is set when the stored credential is unusable and the
	// visitor's token and user must be dropped.
	ClearSession bool
	Claims       *tokens.Claims
	Reason       string
}

// Evaluate is pure. An empty allowed list admits any authenticated role.
func Evaluate(token string, now time.Time, allowed []string) Decision {
	if token == "" {
		return Decision{Outcome: RedirectLogin, Reason: "no_token"}
	}
	claims, err := tokens.Decode(token)
	if err != nil {
		return Decision{Outcome: RedirectLogin, ClearSession: true, Reason: "malformed"}
	}
	if claims.Expired(now) {
		return Decision{Outcome: RedirectLogin, ClearSession: true, Reason: "expired"}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, claims.Role) {
		return Decision{Outcome: RedirectDefault, Claims: claims, Reason: "role"}
	}
	return Decision{Outcome: Render, Claims: claims}
}
