package entities

import "errors"

// Domain sentinel errors returned by repositories
var (
	ErrPersonNotFound       = errors.New("person not found")
	ErrConversationNotFound = errors.New("conversation not found")
)
