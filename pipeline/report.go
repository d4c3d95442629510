package pipeline

import (
	"time"

	"github.com/KashifMalik777/ml-ids/parser/files"
	"github.com/KashifMalik777/ml-ids/pkg/label"
	"github.com/KashifMalik777/ml-ids/pkg/sanitize"
	"github.com/KashifMalik777/ml-ids/pkg/schema"
)

type (
	//Report gathers the diagnostic counts of a pipeline run. Every
	//condition which is not fatal is reported here rather than hidden.
	Report struct {
		RunID     string
		Version   string
		Started   time.Time
		Duration  time.Duration
		Completed []StageTiming

		FilesDiscovered int
		FilesLoaded     []string
		FilesSkipped    []files.SkippedFile
		RowsLoaded      int

		Collisions []FileCollision
		Unify      schema.UnifyResult
		Sanitize   sanitize.Result
		Labels     label.Result
		Verify     sanitize.VerifyResult

		// RemainingMissing and RemainingInfinite are counted over the final
		// table and are expected to be zero
		RemainingMissing  int
		RemainingInfinite int

		OutputPath  string
		RowsWritten int
	}

	//StageTiming records how long a completed stage took
	StageTiming struct {
		Stage    Stage
		Duration time.Duration
	}

	//FileCollision is a column collision found while normalizing a file
	FileCollision struct {
		Path string
		schema.Collision
	}
)

//StageDuration returns the time spent in the given stage, or zero if the
//stage did not complete
func (r *Report) StageDuration(stage Stage) time.Duration {
	for _, timing := range r.Completed {
		if timing.Stage == stage {
			return timing.Duration
		}
	}
	return 0
}

//LastStage returns the last stage which completed
func (r *Report) LastStage() (Stage, bool) {
	if len(r.Completed) == 0 {
		return Discover, false
	}
	return r.Completed[len(r.Completed)-1].Stage, true
}
