package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/notionsync/cmd/notionsync/commands"
	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsync/internal/version"
)

func main() {
	var cli commands.CLI
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global := &commands.Global{Context: ctx, Stdout: os.Stdout}
	parser := kong.Parse(&cli,
		kong.Name("notionsync"),
		kong.Description("Mirror a repository's Markdown documents into a Notion page tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := parser.Run(global, &cli)
	stop()
	ferrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
