package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bollard/cmd/bollard/commands"
	"git.home.luguber.info/inful/bollard/internal/foundation/errors"
	"git.home.luguber.info/inful/bollard/internal/version"
)

// kong exits with 80 on usage errors.
const kongUsageExit = 80

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("bollard"),
		kong.Description("Build a static website from a source tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Exit(func(code int) {
			if code == kongUsageExit {
				code = 1
			}
			os.Exit(code)
		}),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
