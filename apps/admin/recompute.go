package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) recomputeCredits() error {
	changed, err := cli.planSvc.RecomputeAllCredits(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d semester(s) updated\n", changed)
	return nil
}
