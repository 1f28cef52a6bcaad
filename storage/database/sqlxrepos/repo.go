package sqlxrepos

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/storage/database"
)

// filter accumulates AND-ed conditions; each "?" in a condition is bound to the argument added with it.
type filter struct {
	conds []string
	args  []interface{}
}

func (f *filter) add(cond string, arg interface{}) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(f.args))))
}

func (f filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// contains is the ILIKE pattern matching s literally anywhere in a column.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// page appends the LIMIT/OFFSET clause and returns the arguments to use with it.
func (f filter) page(p core.Pagination) (string, []interface{}) {
	args := append(append([]interface{}{}, f.args...), p.Limit(), p.Offset())
	n := len(args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n), args
}

func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + fallback
	}
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// deleteRow runs a single-row delete and reports a NotFoundError when nothing matched.
func deleteRow(ctx context.Context, exec core.DBExecutor, entity, query string, args ...interface{}) error {
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return database.DeleteErr(err, entity, "deleting "+entity)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting "+entity)
	}
	if n == 0 {
		return core.NewNotFoundError(entity)
	}
	return nil
}

// lockRow takes a row lock on table.id so that concurrent writers touching the same owner serialize.
func lockRow(ctx context.Context, tx core.DBExecutor, table, entity, id string) error {
	var found string
	err := tx.GetContext(ctx, &found, "SELECT id FROM "+table+" WHERE id = $1 FOR UPDATE", id)
	return database.Err(err, entity, "locking "+entity)
}
