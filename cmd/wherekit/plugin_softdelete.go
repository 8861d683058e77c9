package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bawdo/wherekit/plugins/softdelete"
)

var errSoftdeleteUsage = errors.New("usage: plugin softdelete <column> on <table1> [table2 ...]")

// parseSoftdelete builds a soft-delete transformer from REPL arguments:
//
//	plugin softdelete                          deleted_at on every table
//	plugin softdelete removed_at               custom column on every table
//	plugin softdelete removed_at on users      custom column on listed tables
//	plugin softdelete users.deleted_at, posts.removed_at
func parseSoftdelete(args string) (plugin, error) {
	if strings.Contains(args, ".") {
		var opts []softdelete.Option
		for _, pair := range strings.Split(args, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			table, col, _ := strings.Cut(pair, ".")
			if table == "" || col == "" {
				return nil, fmt.Errorf("invalid table.column pair: %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(table, col))
		}
		return softdelete.New(opts...), nil
	}

	col, tables, scoped := cutWord(args, "on")
	switch {
	case scoped && (col == "" || len(splitNames(tables)) == 0):
		return nil, errSoftdeleteUsage
	case scoped:
		return softdelete.New(softdelete.WithColumn(col), softdelete.WithTables(splitNames(tables)...)), nil
	case col != "":
		return softdelete.New(softdelete.WithColumn(strings.Fields(col)[0])), nil
	default:
		return softdelete.New(), nil
	}
}

// cutWord splits s around the first standalone, case-insensitive word.
func cutWord(s, word string) (before, after string, found bool) {
	fields := strings.Fields(s)
	for i, f := range fields {
		if strings.EqualFold(f, word) {
			return strings.Join(fields[:i], " "), strings.Join(fields[i+1:], " "), true
		}
	}
	return strings.TrimSpace(s), "", false
}
