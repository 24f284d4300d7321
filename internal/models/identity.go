package models

import "strings"

// AnonymousMarker is the user id sent by clients that are not signed in. It
// doubles as the default anonymous session key.
const AnonymousMarker = "anonymous-user"

// Identity is either a registered user or an anonymous session
type Identity struct {
	userID     string
	sessionKey string
}

func Registered(userID string) Identity {
	return Identity{userID: userID}
}

func Anonymous(sessionKey string) Identity {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		sessionKey = AnonymousMarker
	}
	return Identity{sessionKey: sessionKey}
}

// ParseIdentity treats an empty id or the anonymous marker as anonymous
func ParseIdentity(userID, sessionKey string) Identity {
	userID = strings.TrimSpace(userID)
	if userID == "" || userID == AnonymousMarker {
		return Anonymous(sessionKey)
	}
	return Registered(userID)
}

func (i Identity) IsAnonymous() bool {
	return i.userID == ""
}

// UserID returns the owner reference, nil for anonymous identities
func (i Identity) UserID() *string {
	if i.IsAnonymous() {
		return nil
	}
	id := i.userID
	return &id
}

// Key is the value stored in likes.identity
func (i Identity) Key() string {
	if i.IsAnonymous() {
		return "anon:" + i.sessionKey
	}
	return "user:" + i.userID
}

func (i Identity) String() string {
	return i.Key()
}
