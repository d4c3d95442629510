package main

import (
	"os"
	"runtime"

	"github.com/KashifMalik777/ml-ids/commands"
	"github.com/KashifMalik777/ml-ids/config"
	"github.com/urfave/cli"
)

// Entry point of ml-ids
func main() {
	app := cli.NewApp()
	app.Name = "ml-ids"
	app.Usage = "Prepare flow captures and train an intrusion detection model."

	app.Version = config.ExactVersion

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	app.Run(os.Args)
}
