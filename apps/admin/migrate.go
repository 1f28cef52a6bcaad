package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/trezcool/goose"

	"github.com/fmsedu/curriculum/storage/database"
)

// mockable
var (
	gooseUp        = goose.Up
	gooseUpByOne   = goose.UpByOne
	gooseUpTo      = goose.UpTo
	gooseDown      = goose.Down
	gooseDownTo    = goose.DownTo
	gooseRedo      = goose.Redo
	migrationsFunc = database.Migrations
)

func (cli *commandLine) migrate(args []string) error {
	fsys, dir := migrationsFunc()
	db := cli.sqlDB()

	switch command := args[0]; command {
	case "up":
		return gooseUp(db, fsys, dir)
	case "up-by-one":
		return gooseUpByOne(db, fsys, dir)
	case "down":
		return gooseDown(db, fsys, dir)
	case "redo":
		return gooseRedo(db, fsys, dir)
	case "up-to", "down-to":
		version, err := migrationVersion(command, args[1:])
		if err != nil {
			return err
		}
		if command == "up-to" {
			return gooseUpTo(db, fsys, dir, version)
		}
		return gooseDownTo(db, fsys, dir, version)
	default:
		return fmt.Errorf("%q: no such command", command)
	}
}

func (cli *commandLine) sqlDB() *sql.DB {
	if cli.db == nil {
		return nil
	}
	return cli.db.DB
}

func migrationVersion(command string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s must be of form: migrate %s VERSION", command, command)
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("version must be a number (got '%s')", args[0])
	}
	return version, nil
}

