package session

import "strings"

// command is a "$name arg" chat message
type command struct {
	name string
	arg  string
}

func parseCommand(text string) (command, bool) {
	if !strings.HasPrefix(text, "$") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(text[1:], " ")
	if name == "" {
		return command{}, false
	}
	return command{name: name, arg: strings.TrimSpace(arg)}, true
}
