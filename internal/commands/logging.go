package commands

import (
	"strings"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

const commandModuleRoot = "qti2tex.commands"

// CommandLogger returns the logger for a command module, tagged with the
// component and module name.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
