package app

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassphrase reads a passphrase from the terminal with echo disabled.
// The DIRCMP_PASSPHRASE environment variable bypasses the prompt for
// scripted use. When confirm is set the passphrase is asked for twice and
// must match.
func readPassphrase(confirm bool) (string, error) {
	if pass := os.Getenv("DIRCMP_PASSPHRASE"); pass != "" {
		return pass, nil
	}

	pass, err := promptPassphrase("Passphrase: ")
	if err != nil {
		return "", err
	}
	if pass == "" {
		return "", fmt.Errorf("passphrase is empty")
	}

	if confirm {
		again, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return "", err
		}
		if pass != again {
			return "", fmt.Errorf("passphrases do not match")
		}
	}

	return pass, nil
}

// promptPassphrase writes the prompt to stderr so it never mixes with
// command output on stdout.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}
