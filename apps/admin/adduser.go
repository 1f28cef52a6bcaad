package main

import (
	"context"
	"fmt"

	"github.com/fmsedu/curriculum/core/user"
)

// addUser creates the user, or overwrites the account with the same email.
func (cli *commandLine) addUser(nu user.NewUser) error {
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Save(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (%s)\n", usr.Email, usr.Role)
	return nil
}
