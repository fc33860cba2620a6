// Package session guards against concurrent generation runs for one user
// session with a file lock. Stateless pipeline runs share nothing, so the
// lock is the only cross-process coordination point.
package session
