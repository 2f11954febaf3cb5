// Package session keeps per-browser state between requests.
//
// It wraps an scs.SessionManager whose store is picked by configuration
// (memory, sqlite, postgres or redis) and layers one-shot flash messages
// on top of it: a handler adds a notice before redirecting and the next
// page render pops it.
package session
