package commands

import (
	"fmt"

	"github.com/KashifMalik777/ml-ids/pkg/model"
	"github.com/KashifMalik777/ml-ids/resources"
	"github.com/KashifMalik777/ml-ids/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "serve",
		Usage: "Serve predictions from a trained model over HTTP",
		Flags: []cli.Flag{
			configFlag,
			modelFlag,
			cli.StringFlag{
				Name:  "address, a",
				Usage: "Listen on `HOST:PORT`, overriding the config",
				Value: "",
			},
		},
		Action: func(c *cli.Context) error {
			res := resources.InitResources(c.String("config"))

			modelPath := c.String("model")
			if modelPath == "" {
				modelPath = res.Config.S.Model.ModelPath
			}
			address := c.String("address")
			if address == "" {
				address = res.Config.S.Server.Address
			}

			if err := runServe(res, modelPath, address); err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}

func runServe(res *resources.Resources, modelPath string, address string) error {
	m, err := model.Load(modelPath)
	if err != nil {
		// keep serving health checks, predictions answer 503 until a model exists
		res.Log.WithFields(log.Fields{
			"model": modelPath,
			"error": err.Error(),
		}).Warn("Could not load model")
		fmt.Printf("\t[!] No model loaded from %s, predictions are disabled\n", modelPath)
		m = nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("\t[-] Listening on %s\n", address)
	return server.New(m, res.Log).Run(ctx, address)
}
