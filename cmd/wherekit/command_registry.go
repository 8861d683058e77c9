package main

import (
	"errors"
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- display ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "tosql", handler: func(_ string) error { return s.cmdSQL() }, hidden: true},
		{prefix: "delete", handler: func(_ string) error { return s.cmdDelete() }},
		{prefix: "inline", handler: func(_ string) error { return s.cmdInline() }},
		{prefix: "status", handler: func(_ string) error { s.cmdStatus(); return nil }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "dot ", handler: func(a string) error { return s.cmdDot(a) }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- query building ---
		{prefix: "from ", handler: func(a string) error { return s.cmdFrom(a) }, completer: completeTableArgs},
		{prefix: "where ", handler: func(a string) error { return s.cmdWhere(a) }, completer: completeFilterArgs},
		{prefix: "where", handler: func(_ string) error { return errors.New("usage: where <json filter>") }},
		{prefix: "undo", handler: func(_ string) error { return s.cmdUndo() }},
		{prefix: "group ", handler: func(a string) error { return s.cmdGroup(a) }, completer: completeColumnArgs},
		{prefix: "limit ", handler: func(a string) error { return s.cmdLimit(a) }},
		{prefix: "take ", handler: func(a string) error { return s.cmdLimit(a) }, hidden: true},
		{prefix: "columns ", handler: func(a string) error { return s.cmdColumns(a) }, completer: completeColumnArgs},
		{prefix: "columns", handler: func(_ string) error { return s.cmdColumns("") }},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }, hidden: true},

		// --- engine / plugins ---
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs},
		{prefix: "plugin ", handler: func(a string) error { return s.cmdPlugin(a) }, completer: completePluginArgs},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeTableArgs completes the single table name of from.
func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimSpace(args)
	if strings.Contains(arg, " ") {
		return contextNone, ""
	}
	return contextTableName, arg
}

// completeColumnArgs completes comma or space separated column names.
func completeColumnArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") || strings.HasSuffix(args, ",") {
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeFilterArgs completes inside a JSON filter document: an operator
// straight after an opening bracket, a column name after the operator.
func completeFilterArgs(args string) (completionContext, string) {
	open := strings.LastIndexByte(args, '[')
	if open < 0 {
		return contextNone, ""
	}
	tail := args[open+1:]
	fields := strings.Split(tail, ",")
	if len(fields) > 2 {
		return contextNone, ""
	}
	current := strings.TrimLeft(fields[len(fields)-1], " ")
	if !strings.HasPrefix(current, `"`) || strings.Count(current, `"`) > 1 {
		return contextNone, ""
	}
	if len(fields) == 1 {
		return contextOperator, current[1:]
	}
	return contextColumnRef, current[1:]
}

// completeEngineArgs handles completion for the engine command.
func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completePluginArgs handles completion for the plugin command:
// plugin names, or after "off" the names of enabled plugins.
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[4:])
	}
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextPlugin, arg
	}
	return contextNone, ""
}
