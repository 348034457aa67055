package security

import "sync"

// In-memory deny lists; consider persistence for production.
var (
	muDenied  sync.RWMutex
	denySeats = make(map[int64]struct{})
	denyKeys  = make(map[string]struct{}) // key: sha256 hex digest of the access key
)

// Seat denylist API
func DenySeat(id int64) { muDenied.Lock(); denySeats[id] = struct{}{}; muDenied.Unlock() }
func AllowSeat(id int64) { muDenied.Lock(); delete(denySeats, id); muDenied.Unlock() }
func IsSeatDenied(id int64) bool {
	muDenied.RLock()
	_, ok := denySeats[id]
	muDenied.RUnlock()
	return ok
}

// Access-key denylist API, keyed by lookup digest so raw keys never live here.
func DenyKey(digest string) { muDenied.Lock(); denyKeys[digest] = struct{}{}; muDenied.Unlock() }
func AllowKey(digest string) { muDenied.Lock(); delete(denyKeys, digest); muDenied.Unlock() }
func IsKeyDenied(digest string) bool {
	muDenied.RLock()
	_, ok := denyKeys[digest]
	muDenied.RUnlock()
	return ok
}
