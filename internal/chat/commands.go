package chat

import (
	"strings"

	"github.com/litescript/ls-orrery/internal/ephem"
)

// CommandKind enumerates the local commands handled before the LLM.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdInfo
	CmdUpcomingEvents
	CmdExportCSV
	CmdHelp
)

// Command is a parsed local command. The UI or engine dispatches it; chat
// never executes commands itself.
type Command struct {
	Kind CommandKind
	Body ephem.BodyID // CmdInfo
	Path string       // CmdExportCSV

	// Reply is a ready answer for commands that need no dispatch (help,
	// usage errors).
	Reply string
}

// HelpText lists the local commands.
const HelpText = `Available commands:
- info <body>
- upcoming events
- export csv <path>
- help
Ask general space questions too.`

// ParseCommand checks the input against the local command set. ok is false
// when the input should go to the LLM instead.
func ParseCommand(input string) (Command, bool) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return Command{}, false
	}

	switch strings.ToLower(fields[0]) {
	case "info":
		if len(fields) < 2 {
			return Command{Kind: CmdHelp, Reply: "Usage: info <body>"}, true
		}
		name := strings.Join(fields[1:], " ")
		body, err := ephem.ParseBody(name)
		if err != nil {
			return Command{
				Kind:  CmdHelp,
				Reply: "Unknown body " + name + ". Known: " + knownBodies(),
			}, true
		}
		return Command{Kind: CmdInfo, Body: body}, true

	case "upcoming":
		if len(fields) > 1 && strings.ToLower(fields[1]) == "events" {
			return Command{Kind: CmdUpcomingEvents}, true
		}

	case "export":
		if len(fields) >= 2 && strings.ToLower(fields[1]) == "csv" {
			if len(fields) < 3 {
				return Command{Kind: CmdHelp, Reply: "Usage: export csv <path>"}, true
			}
			return Command{Kind: CmdExportCSV, Path: strings.Join(fields[2:], " ")}, true
		}

	case "help", "commands":
		return Command{Kind: CmdHelp, Reply: HelpText}, true
	}

	return Command{}, false
}

func knownBodies() string {
	names := make([]string, len(ephem.Bodies))
	for i, b := range ephem.Bodies {
		names[i] = b.String()
	}
	return strings.Join(names, ", ")
}
