package employee

import (
	"time"
)

// Credential is one row of the credential store. Username is the unique
// key, stored lowercase and trimmed; DisplayName is what the time log
// records as the employee name.
type Credential struct {
	Username     string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}
