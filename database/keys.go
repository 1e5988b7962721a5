package database

import "fmt"

const (
	sessionKeyPrefix = "session:"
	// DirectoryKey holds the latest room directory snapshot.
	DirectoryKey = "rooms:directory"
)

func FormatSessionKey(participantID string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, participantID)
}
