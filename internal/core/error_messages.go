package core

// Result flags travel as ?success=<flag> or ?error=<flag> on the redirect
// after every write, and are read back by the list view to show a banner.
//
// # Success flags
//
//	create, update, delete
//
// # Error flags
//
//	duplicate-create  A record with the same unique values already exists
//	duplicate-update  The new values collide with another record
//	invalid-input     A numeric field could not be parsed or a required value is missing
//	create-failed     Any other create failure (missing reference, connection loss)
//	update-failed     Any other update failure, including a record that no longer exists
//	delete-failed     Any delete failure, including a record that does not exist
//
// The older "duplicate" and "update-duplicate" spellings are still recognized.
// Unknown flags are shown with a generic message, never echoed verbatim.

import "fmt"

// UserMessage provides banner text for a result flag.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // The flag itself, for support reference
}

// SuccessFlag returns the flag for a successful operation.
func SuccessFlag(op Op) string {
	return string(op)
}

// ErrorFlag returns the redirect flag for a failed operation.
func ErrorFlag(op Op, err error) string {
	switch Classify(err) {
	case ReasonInput:
		return "invalid-input"
	case ReasonDuplicate:
		if op == OpCreate || op == OpUpdate {
			return "duplicate-" + string(op)
		}
	}
	return fmt.Sprintf("%s-failed", op)
}

var successMessages = map[string]UserMessage{
	"create": {Message: "Record created", Code: "create"},
	"update": {Message: "Record updated", Code: "update"},
	"delete": {Message: "Record deleted", Code: "delete"},
}

var errorMessages = map[string]UserMessage{
	"duplicate-create": {
		Message: "A record with these values already exists",
		Action:  "Change the unique fields and try again",
		Code:    "duplicate-create",
	},
	"duplicate-update": {
		Message: "Another record already uses these values",
		Action:  "Choose different values for the unique fields",
		Code:    "duplicate-update",
	},
	"invalid-input": {
		Message: "Some of the submitted values are not valid",
		Action:  "Check numeric fields and required selections",
		Code:    "invalid-input",
	},
	"create-failed": {
		Message: "The record could not be created",
		Action:  "Make sure the referenced records exist",
		Code:    "create-failed",
	},
	"update-failed": {
		Message: "The record could not be updated",
		Action:  "Reload the page; it may have been changed or removed",
		Code:    "update-failed",
	},
	"delete-failed": {
		Message: "The record could not be deleted",
		Action:  "Reload the page; it may already have been removed",
		Code:    "delete-failed",
	},
}

func init() {
	errorMessages["duplicate"] = errorMessages["duplicate-create"]
	errorMessages["update-duplicate"] = errorMessages["duplicate-update"]
}

var unknownError = UserMessage{
	Message: "The operation did not complete",
	Action:  "Please try again",
	Code:    "ERR000",
}

// SuccessMessage returns the banner for a success flag, or false if the flag is empty or unknown.
func SuccessMessage(flag string) (UserMessage, bool) {
	msg, ok := successMessages[flag]
	return msg, ok
}

// ErrorMessage returns the banner for an error flag, or false if the flag is empty.
// Unknown non-empty flags map to a generic message.
func ErrorMessage(flag string) (UserMessage, bool) {
	if flag == "" {
		return UserMessage{}, false
	}
	if msg, ok := errorMessages[flag]; ok {
		return msg, true
	}
	return unknownError, true
}
