package resources

import (
	"io/ioutil"
	"testing"

	"github.com/KashifMalik777/ml-ids/config"
)

//InitTestResources creates a resource bundle built from the testing config
//pointed at the given inputs and output artifact. Log output is discarded.
func InitTestResources(t *testing.T, inputs []string, outputPath string) *Resources {
	conf, err := config.LoadTestingConfig(inputs, outputPath)
	if err != nil {
		t.Fatal(err)
	}

	res, err := fromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	res.Log.Out = ioutil.Discard
	return res
}
