package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/migrate"
)

// confirmOperation obtains the confirmation token that gates mutating
// runs. With --yes the explicit affirmative comes from the flag; otherwise
// the operator is prompted interactively. A non-interactive caller without
// --yes fails closed.
func confirmOperation(title, description string, assumeYes bool) (migrate.Confirmation, error) {
	if assumeYes {
		return migrate.Confirm(true), nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return migrate.Confirm(false),
			fmt.Errorf("standard input is not a terminal; pass --yes to confirm non-interactively")
	}

	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, proceed").
				Negative("No, abort").
				Value(&proceed),
		),
	)

	if err := form.Run(); err != nil {
		return migrate.Confirm(false), fmt.Errorf("confirmation aborted: %w", err)
	}

	return migrate.Confirm(proceed), nil
}
