package commands

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KashifMalik777/ml-ids/config"
	"github.com/KashifMalik777/ml-ids/resources"

	"github.com/blang/semver"
	"github.com/google/go-github/github"
	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

const (
	repoOwner = "KashifMalik777"
	repoName  = "ml-ids"
)

//Strings used for informing the user of a new version.
var informFmtStr = "\nThere's a new %s version of ml-ids %s available at:\nhttps://github.com/" +
	repoOwner + "/" + repoName + "/releases\n"
var versions = []string{"Major", "Minor", "Patch"}

// updateState remembers when releases were last checked
type updateState struct {
	LastCheck     time.Time `json:"last_check"`
	LatestVersion string    `json:"latest_version"`
}

// updateCheck checks the git repository for a newer release and returns a
// string telling the user about it, or "" when there is nothing to report
func updateCheck(configFile string) string {
	res := resources.InitResources(configFile)
	delta := res.Config.S.UserConfig.UpdateCheckFrequency
	if delta <= 0 {
		return ""
	}

	statePath := updateStatePath()
	state := loadUpdateState(statePath)
	newVersion, _ := semver.ParseTolerant(state.LatestVersion)

	days := time.Since(state.LastCheck).Hours() / 24
	if days > float64(delta) {
		var err error
		newVersion, err = getRemoteVersion()
		if err != nil {
			res.Log.WithFields(log.Fields{
				"error": err.Error(),
			}).Debug("Could not check for a new version")
			return ""
		}

		res.Log.WithFields(log.Fields{
			"last_update_check": time.Now(),
			"newest_version":    fmt.Sprint(newVersion),
		}).Info("Checking for new version")

		state = updateState{LastCheck: time.Now(), LatestVersion: newVersion.String()}
		if err := saveUpdateState(statePath, state); err != nil {
			res.Log.WithFields(log.Fields{
				"error": err.Error(),
				"path":  statePath,
			}).Debug("Could not record the update check")
		}
	}

	configVersion, err := semver.ParseTolerant(config.Version)
	if err != nil {
		return ""
	}

	if newVersion.GT(configVersion) {
		return informUser(configVersion, newVersion)
	}

	return ""
}

// Returns the first index where v1 is greater than v2
func versionDiffIndex(v1 semver.Version, v2 semver.Version) int {
	if v1.Major > v2.Major {
		return 0
	}
	if v1.Minor > v2.Minor {
		return 1
	}
	return 2
}

func getRemoteVersion() (semver.Version, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := github.NewClient(nil)
	refs, _, err := client.Git.GetRefs(ctx, repoOwner, repoName, "refs/tags/v")
	if err != nil {
		return semver.Version{}, err
	}
	if len(refs) == 0 {
		return semver.Version{}, fmt.Errorf("no release tags found")
	}

	s := strings.TrimPrefix(refs[len(refs)-1].GetRef(), "refs/tags/")
	return semver.ParseTolerant(s)
}

// Assembles a notice for the user informing them of an upgrade.
func informUser(local semver.Version, remote semver.Version) string {
	return fmt.Sprintf(informFmtStr,
		versions[versionDiffIndex(remote, local)],
		fmt.Sprint(remote))
}

func updateStatePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ml-ids", "update-check.json")
}

func loadUpdateState(path string) updateState {
	var state updateState
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return state
	}
	// a corrupt file just triggers a fresh check
	_ = jsoniter.Unmarshal(data, &state)
	return state
}

func saveUpdateState(path string, state updateState) error {
	data, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}
