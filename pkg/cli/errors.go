package cli

import "errors"

// Common CLI errors
var (
	ErrNotLoggedIn = errors.New("not logged in - run: vab login")
)

// exitError ends the command with a code after its output was written.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "exit status" }
