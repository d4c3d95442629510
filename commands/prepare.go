package commands

import (
	"fmt"
	"os"

	"github.com/KashifMalik777/ml-ids/config"
	"github.com/KashifMalik777/ml-ids/pipeline"
	"github.com/KashifMalik777/ml-ids/printing"
	"github.com/KashifMalik777/ml-ids/resources"
	"github.com/KashifMalik777/ml-ids/util"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "prepare",
		Usage: "Clean and unify flow CSV files into a training dataset",
		UsageText: "ml-ids prepare [command options] [input files or directories...]\n\n" +
			"When no inputs are given the files listed in the config are used.",
		Flags: []cli.Flag{
			configFlag,
			threadFlag,
			outputFlag,
		},
		Action: func(c *cli.Context) error {
			res := resources.InitResources(c.String("config"))
			if err := applyPrepareFlags(c, res.Config); err != nil {
				return cli.NewExitError(err.Error(), -1)
			}

			if err := runPrepare(res); err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}

// applyPrepareFlags lets the command line override the configured inputs,
// output and load threads
func applyPrepareFlags(c *cli.Context, conf *config.Config) error {
	if c.NArg() > 0 {
		if err := conf.OverrideInputs(c.Args()); err != nil {
			return err
		}
	}
	if c.String("output") != "" {
		conf.S.Pipeline.OutputPath = c.String("output")
	}
	if c.Int("threads") > 0 {
		conf.S.Pipeline.LoadThreads = c.Int("threads")
	}
	return nil
}

func runPrepare(res *resources.Resources) error {
	if len(res.Config.R.Pipeline.Sources) == 0 {
		return fmt.Errorf("%w: no input files were given on the command line or in the config", pipeline.ErrEmptyInput)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println("\t[-] Preparing dataset ...")
	report, err := pipeline.New(res.Config, res.Log).Run(ctx)
	printing.PrintReport(os.Stdout, report)
	if err != nil {
		return err
	}

	res.Log.WithFields(log.Fields{
		"run_id":   report.RunID,
		"rows":     report.RowsWritten,
		"output":   report.OutputPath,
		"duration": util.FormatDuration(report.Duration),
	}).Info("Prepared dataset")
	fmt.Printf("\t[-] Wrote %d rows to %s\n", report.RowsWritten, report.OutputPath)
	return nil
}
