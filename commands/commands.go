package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	threadFlag = cli.IntFlag{
		Name:  "threads, t",
		Usage: "Read up to `N` input files at once, overriding the config",
		Value: 0,
	}

	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "Write the prepared dataset to `PATH`, overriding the config",
		Value: "",
	}

	datasetFlag = cli.StringFlag{
		Name:  "dataset, d",
		Usage: "Read the prepared dataset from `PATH`, defaults to the configured output",
		Value: "",
	}

	modelFlag = cli.StringFlag{
		Name:  "model, m",
		Usage: "Path of the model `FILE`, defaults to the configured model path",
		Value: "",
	}
)

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}

// signalContext returns a context which is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
