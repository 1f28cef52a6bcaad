package inmemdb

import (
	"sync"

	"github.com/fmsedu/curriculum/core/user"
)

type (
	// DB keeps the accounts in memory, for tests & local tooling.
	DB struct {
		user *userTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User // by ID
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
}
