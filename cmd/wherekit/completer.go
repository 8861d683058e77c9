package main

import (
	"sort"
	"strings"

	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/filter"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextNone                               // nothing to offer
	contextTableName                          // after from
	contextColumnRef                          // after group/columns, or a filter column
	contextEngine                             // after engine
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
	contextOperator                           // first element of a filter list
)

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumnRef:
		candidates = filterPrefix(c.sess.knownColumns(), prefix)
	case contextEngine:
		candidates = filterPrefix(adapters.Names(), prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.names(), prefix)
	case contextOperator:
		candidates = filterPrefix(filter.Operators(), prefix)
	}

	// Inside a filter document a candidate closes its JSON string.
	terminator := " "
	if strings.HasPrefix(strings.ToLower(lineStr), "where ") {
		terminator = `", `
	}
	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		newLine = append(newLine, []rune(suffix+terminator))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			if cmd.completer == nil {
				return contextNone, ""
			}
			return cmd.completer(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

// completeTableNames returns the current and database table names matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	var names []string
	if c.sess.query != nil {
		names = append(names, c.sess.query.table.Name)
	}
	if c.sess.conn != nil {
		names = append(names, c.sess.conn.schemaTables()...)
	}
	names = dedup(names)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// knownColumns lists the columns offered for completion: the explicit
// whitelist, else the current table's schema when connected.
func (s *Session) knownColumns() []string {
	if len(s.columns) > 0 {
		return s.columns
	}
	if s.conn == nil || s.query == nil {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.conn.schemaColumns(ctx, s.query.table.Name)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace- or comma-separated token.
func lastToken(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == ',' || s[i] == '\t' {
			return s[i+1:]
		}
	}
	return s
}
