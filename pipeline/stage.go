package pipeline

import (
	"errors"
	"fmt"

	"github.com/KashifMalik777/ml-ids/pkg/schema"
)

//Stage is one step of a pipeline run. Stages always run in declaration order.
type Stage int

const (
	Discover Stage = iota
	Load
	Normalize
	Unify
	Sanitize
	Consolidate
	VerifyFinal
	Persist
)

var stageNames = [...]string{
	Discover:    "discover",
	Load:        "load",
	Normalize:   "normalize",
	Unify:       "unify",
	Sanitize:    "sanitize",
	Consolidate: "consolidate",
	VerifyFinal: "verify",
	Persist:     "persist",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

//Stages lists every stage in run order
func Stages() []Stage {
	return []Stage{Discover, Load, Normalize, Unify, Sanitize, Consolidate, VerifyFinal, Persist}
}

var (
	//ErrEmptyInput is returned when no configured source could be loaded
	ErrEmptyInput = schema.ErrEmptyInput

	//ErrNoCommonFeatures is returned when the sources share no preferred feature
	ErrNoCommonFeatures = schema.ErrNoCommonFeatures

	//ErrNoLabelColumn is returned when the label column did not survive unification
	ErrNoLabelColumn = errors.New("label column is not shared by every input")

	//ErrPersist is returned when the prepared dataset could not be written
	ErrPersist = errors.New("could not persist the prepared dataset")
)

//StageError ties a fatal error to the stage which produced it
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
