package auth

import (
	"fmt"

	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/keyring"
)

type LoginCmd struct {
	Token string `arg:"" help:"API session token issued by the tally service."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetToken(c.Token); err != nil {
		return err
	}

	// Verify the token against the service before declaring success.
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()
	if err := ctx.Client.Ping(reqCtx); err != nil {
		fmt.Println("Token stored, but the service could not be reached to verify it.")
		return err
	}

	fmt.Println("Logged in.")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if err == keyring.ErrNotFound {
			fmt.Println("No session to log out of.")
			return nil
		}
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if _, err := keyring.GetToken(); err != nil {
		if err == keyring.ErrNotFound {
			fmt.Println("Not logged in. Run 'tally login <token>'.")
			return nil
		}
		return err
	}
	fmt.Println("Logged in (token stored in OS keyring).")
	return nil
}
