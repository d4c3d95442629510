package commands

import (
	"fmt"

	"github.com/KashifMalik777/ml-ids/config"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:   "version",
		Usage:  "Show the ml-ids version and check for updates",
		Flags:  []cli.Flag{configFlag},
		Action: showVersion,
	}

	bootstrapCommands(command)
}

func showVersion(c *cli.Context) error {
	fmt.Printf("ml-ids version %s\n", config.ExactVersion)
	fmt.Print(updateCheck(c.String("config")))
	return nil
}
