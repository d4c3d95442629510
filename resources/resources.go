package resources

import (
	"fmt"
	"os"

	"github.com/KashifMalik777/ml-ids/config"
	log "github.com/sirupsen/logrus"
)

type (
	// Resources provides a data structure for passing system Resources
	Resources struct {
		Config *config.Config
		Log    *log.Logger
	}
)

// InitResources grabs the configuration file and intitializes the configuration data
// returning a *Resources object which has all of the necessary configuration information
func InitResources(userConfig string) *Resources {
	res, err := NewResources(userConfig)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Failed to config: %s\n", err.Error())
		os.Exit(-1)
	}
	return res
}

// NewResources loads the configuration and sets up logging, returning
// any error instead of exiting
func NewResources(userConfig string) (*Resources, error) {
	conf, err := config.LoadConfig(userConfig)
	if err != nil {
		return nil, err
	}
	return fromConfig(conf)
}

func fromConfig(conf *config.Config) (*Resources, error) {
	// Fire up the logging system
	log := initLogger(&conf.S.Log)

	if conf.S.Log.LogToFile {
		if err := addFileLogger(log, conf.S.Log.LogPath); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}
	}

	//bundle up the system resources
	return &Resources{
		Config: conf,
		Log:    log,
	}, nil
}
