package tpmsession

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// PromptOwnerAuth is called to prompt for the owner-hierarchy
// authorization when [Config.PromptOwnerAuth] is set.
// This variable can be overridden in tests or custom implementations.
//
// The default implementation prompts the user via stdin/stderr.
var PromptOwnerAuth atomic.Pointer[func() ([]byte, error)]

func init() {
	defaultPrompt := func() ([]byte, error) {
		fmt.Fprint(os.Stderr, "Enter owner authorization: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return password, nil
	}
	PromptOwnerAuth.Store(&defaultPrompt)
}
