// Package session tracks which user the running application is acting for.
//
// The store API takes user ids explicitly. The command surface exposed to the
// tray UI does not: the UI calls init-user once with its device id and every
// later command implicitly targets that user. Current is that association.
// Commands issued before it is set fail with ErrNoCurrentUser.
package session
