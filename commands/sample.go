package commands

import (
	"fmt"
	"os"

	"github.com/KashifMalik777/ml-ids/parser/files"
	"github.com/KashifMalik777/ml-ids/pkg/model"
	"github.com/KashifMalik777/ml-ids/pkg/schema"
	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/KashifMalik777/ml-ids/resources"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "sample",
		Usage:     "Print one row of a flow CSV as a /predict request body",
		ArgsUsage: "<csv file>",
		Flags: []cli.Flag{
			configFlag,
			modelFlag,
			cli.IntFlag{
				Name:  "row, r",
				Usage: "Use the data row at zero based `INDEX`",
				Value: 0,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.NewExitError("Specify exactly one CSV file", -1)
			}
			res := resources.InitResources(c.String("config"))

			var features []string
			modelPath := c.String("model")
			if modelPath != "" {
				m, err := model.Load(modelPath)
				if err != nil {
					return cli.NewExitError(err.Error(), -1)
				}
				features = m.Features
			}

			src := files.Source{Path: c.Args().First()}
			if len(res.Config.R.Pipeline.Sources) > 0 {
				src.Encodings = res.Config.R.Pipeline.Sources[0].Encodings
			} else {
				src.Encodings = res.Config.S.Pipeline.FallbackEncodings
			}

			payload, err := samplePayload(src, c.Int("row"), features, res.Config.S.Pipeline.LabelColumn)
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			fmt.Fprintln(os.Stdout, string(payload))
			return nil
		},
	}

	bootstrapCommands(command)
}

// samplePayload builds the JSON feature object for one row of a raw CSV.
// When features is empty every numeric column except the label is used.
func samplePayload(src files.Source, row int, features []string, labelColumn string) ([]byte, error) {
	loaded, err := files.ReadFile(src)
	if err != nil {
		return nil, err
	}
	tbl, _, err := schema.NormalizeColumns(loaded.Table, schema.CollisionWarn)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= tbl.NumRows() {
		return nil, fmt.Errorf("row %d is out of range, the file has %d rows", row, tbl.NumRows())
	}

	if len(features) == 0 {
		for _, col := range tbl.Columns {
			if col.Name != labelColumn && col.Kind == table.Numeric {
				features = append(features, col.Name)
			}
		}
	}

	payload := make(map[string]float64, len(features))
	for _, name := range features {
		col := tbl.Column(name)
		if col == nil || col.Kind != table.Numeric {
			return nil, fmt.Errorf("file has no numeric column %q", name)
		}
		payload[name] = col.Floats[row]
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(payload, "", "  ")
}
