// ABOUTME: Process-wide current-user association for the command surface
// ABOUTME: Set once by init-user, read by every user-scoped command

package session

import (
	"errors"
	"sync"
)

// ErrNoCurrentUser is returned when a user-scoped command runs before init-user.
var ErrNoCurrentUser = errors.New("current user not initialized")

// Current holds the resolved user id for this process.
// It is safe for concurrent use.
type Current struct {
	mu     sync.RWMutex
	userID int64
	set    bool
}

// New creates an empty association.
func New() *Current {
	return &Current{}
}

// Set records userID as the current user, replacing any previous one.
func (c *Current) Set(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = userID
	c.set = true
}

// UserID returns the current user id, or ErrNoCurrentUser.
func (c *Current) UserID() (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set {
		return 0, ErrNoCurrentUser
	}
	return c.userID, nil
}

// Clear forgets the current user.
func (c *Current) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = 0
	c.set = false
}
