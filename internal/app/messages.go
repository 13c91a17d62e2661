package service

import (
	"strings"

	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/internal/domain/types"
)

// Notification titles.
const (
	TitleSuccess     = "Success"
	TitleError       = "Error"
	TitleInvalidTime = "Invalid Time"
)

// MessagePending is shown when a form submits while its previous submit is in flight.
const MessagePending = "Please wait for the current submission to finish."

var (
	opVerb = map[invalidation.Op][2]string{
		invalidation.Create: {"added", "add"},
		invalidation.Update: {"updated", "update"},
		invalidation.Delete: {"deleted", "delete"},
	}
	collectionNoun = map[invalidation.Collection]string{
		invalidation.Classes: "class",
		invalidation.Events:  "event",
	}
)

// successMessage renders e.g. "Class added successfully!".
func successMessage(c invalidation.Collection, op invalidation.Op) string {
	noun := collectionNoun[c]
	return strings.ToUpper(noun[:1]) + noun[1:] + " " + opVerb[op][0] + " successfully!"
}

// failureMessage renders e.g. "Failed to add class. Please try again.".
func failureMessage(c invalidation.Collection, op invalidation.Op) string {
	return "Failed to " + opVerb[op][1] + " " + collectionNoun[c] + ". Please try again."
}

func succeeded(c invalidation.Collection, op invalidation.Op, id string) types.Outcome {
	return types.Outcome{Success: true, Title: TitleSuccess, Message: successMessage(c, op), ID: id}
}

func failed(c invalidation.Collection, op invalidation.Op) types.Outcome {
	return types.Outcome{Title: TitleError, Message: failureMessage(c, op)}
}

func rejected(title, message string) types.Outcome {
	return types.Outcome{Title: title, Message: message}
}
