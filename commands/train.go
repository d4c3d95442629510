package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/KashifMalik777/ml-ids/pkg/artifact"
	"github.com/KashifMalik777/ml-ids/pkg/model"
	"github.com/KashifMalik777/ml-ids/printing"
	"github.com/KashifMalik777/ml-ids/resources"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "train",
		Usage: "Train the attack classifier on a prepared dataset",
		Flags: []cli.Flag{
			configFlag,
			datasetFlag,
			modelFlag,
		},
		Action: func(c *cli.Context) error {
			res := resources.InitResources(c.String("config"))

			datasetPath := c.String("dataset")
			if datasetPath == "" {
				datasetPath = res.Config.S.Pipeline.OutputPath
			}
			modelPath := c.String("model")
			if modelPath == "" {
				modelPath = res.Config.S.Model.ModelPath
			}

			if err := runTrain(res, datasetPath, modelPath); err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}

func runTrain(res *resources.Resources, datasetPath string, modelPath string) error {
	fmt.Println("\t[-] Loading dataset from " + datasetPath + " ...")
	tbl, meta, err := artifact.Read(context.Background(), datasetPath)
	if err != nil {
		return fmt.Errorf("could not read dataset: %w", err)
	}

	ds, err := model.FromTable(tbl, res.Config.S.Pipeline.LabelColumn)
	if err != nil {
		return err
	}
	benign, attack := ds.ClassCounts()
	fmt.Printf("\t[-] Training on %d features, %d benign and %d attack rows ...\n",
		len(ds.Features), benign, attack)

	mc := res.Config.S.Model
	result, err := model.Train(ds, model.Options{
		TestSize:  mc.TestSize,
		Seed:      mc.Seed,
		Threshold: mc.Threshold,
		Train: model.TrainOptions{
			MaxIterations:  mc.MaxIterations,
			LearningRate:   mc.LearningRate,
			L2:             mc.L2,
			BalanceClasses: mc.BalanceClasses,
		},
	})
	if err != nil {
		return err
	}
	result.Model.Version = res.Config.S.Version
	result.Model.Dataset = meta[artifact.RunIDKey]

	fmt.Printf("\t[-] Evaluated on %d held out rows\n", result.TestRows)
	printing.PrintEvaluation(os.Stdout, result.Evaluation)

	if err := model.Save(modelPath, result.Model); err != nil {
		return fmt.Errorf("could not save model: %w", err)
	}

	res.Log.WithFields(log.Fields{
		"model":      modelPath,
		"dataset":    datasetPath,
		"train_rows": result.TrainRows,
		"test_rows":  result.TestRows,
		"accuracy":   result.Evaluation.Accuracy,
	}).Info("Trained model")
	fmt.Println("\t[-] Saved model to " + modelPath)
	return nil
}
