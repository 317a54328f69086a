// Package vault implements the storage backends records can be pushed to
// and pulled from. Vaults are flat: records live under their base filename
// with no directory structure.
package vault

import (
	"fmt"
	"strings"
)

// validateName rejects names that would escape a vault's flat namespace.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("record name is empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid record name: %s", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("record name must not contain path separators: %s", name)
	}
	return nil
}
