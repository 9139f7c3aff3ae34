// Package tracker implements per-chat live train tracking: a background task
// per chat that polls the status API, resolves the train's position against
// its route, renders a progress message, and keeps a single Telegram message
// per chat up to date, with a cosmetic animation overlay between polls.
package tracker

import "github.com/railbeacon/train-live-bot/railapi"

// StationContext locates a position snapshot within a route: the station the
// train is currently at (or last passed) plus its immediate neighbors.
// Any field may be nil: Previous/Next at route boundaries, all three when the
// reported station code is not on the route.
type StationContext struct {
	Previous *railapi.RouteStation
	Current  *railapi.RouteStation
	Next     *railapi.RouteStation
}

// Resolved reports whether the snapshot mapped onto the route at all.
// An unresolved context means "no renderable position yet", not an error.
func (sc StationContext) Resolved() bool { return sc.Current != nil }

// ResolveContext finds the first route station matching code and returns it
// with its array neighbors. Station codes are assumed unique per route.
func ResolveContext(route []railapi.RouteStation, code string) StationContext {
	var sc StationContext
	if code == "" {
		return sc
	}
	for i := range route {
		if route[i].StationCode != code {
			continue
		}
		sc.Current = &route[i]
		if i > 0 {
			sc.Previous = &route[i-1]
		}
		if i < len(route)-1 {
			sc.Next = &route[i+1]
		}
		break
	}
	return sc
}
