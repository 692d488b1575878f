package protocol

import "fmt"

// Close codes carried by the closed event.
const (
	CodeBanned         = 4
	CodeDuplicateLogin = 6
	CodeKicked         = 12
)

type CloseReason int

const (
	CloseGeneric CloseReason = iota
	CloseBanned
	CloseDuplicateLogin
	CloseKicked
)

// ReasonForCode maps a close code; anything outside the known set is generic.
func ReasonForCode(code int) CloseReason {
	switch code {
	case CodeBanned:
		return CloseBanned
	case CodeDuplicateLogin:
		return CloseDuplicateLogin
	case CodeKicked:
		return CloseKicked
	default:
		return CloseGeneric
	}
}

func (r CloseReason) String() string {
	switch r {
	case CloseBanned:
		return "banned"
	case CloseDuplicateLogin:
		return "duplicate_login"
	case CloseKicked:
		return "kicked"
	default:
		return "connection_closed"
	}
}

// Describe renders the console text for a close code.
func Describe(code int) string {
	switch ReasonForCode(code) {
	case CloseBanned:
		return "You have been banned from the room."
	case CloseDuplicateLogin:
		return "Double account sign in."
	case CloseKicked:
		return "You have been kicked from the room."
	default:
		return fmt.Sprintf("Connection was closed, code: %d", code)
	}
}
