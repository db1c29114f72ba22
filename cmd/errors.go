package cmd

import "fmt"

// AuthRequiredError reports that the cloud CLI needs a login. It maps to
// ExitCodeAuthRequired.
type AuthRequiredError struct {
	Message string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("authentication required: %s", e.Message)
}
