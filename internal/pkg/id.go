package pkg

import "github.com/google/uuid"

// GenerateMatchID returns a random identifier for a persisted match.
func GenerateMatchID() string {
	return uuid.NewString()
}

func IsMatchID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
