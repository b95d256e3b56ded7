package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jakub-m/intervalcore/disjoint"
)

// scenarioFile describes a replayable sequence of interval operations
// against a pairwise-disjoint tracker, the YAML analogue of the
// benchmark-by-flags "run" subcommand for workloads too shaped to fit on
// a command line.
type scenarioFile struct {
	GenCover   bool         `yaml:"genCover"`
	Operations []scenarioOp `yaml:"operations"`
}

type scenarioOp struct {
	Op     string `yaml:"op"` // "add", "remove", or "modify"
	ID     string `yaml:"id"`
	Lo     int    `yaml:"lo"`
	Hi     int    `yaml:"hi"`
	OpenLo bool   `yaml:"openLo"`
	OpenHi bool   `yaml:"openHi"`
}

func newScenarioCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Replay a YAML-described sequence of interval operations against a disjoint tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(path)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "path to the scenario YAML file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runScenario(path string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading scenario file %q", path)
	}
	var sf scenarioFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return errors.Wrapf(err, "decoding scenario file %q", path)
	}

	tr := disjoint.New[string, int](sf.GenCover)
	for i, op := range sf.Operations {
		id := op.ID
		if id == "" {
			id = uuid.NewString()
		}
		switch op.Op {
		case "add":
			delta := tr.AddInterval(op.Lo, op.Hi, op.OpenLo, op.OpenHi, id)
			log.Info().Int("step", i).Str("op", "add").Str("id", id).
				Strs("removed", delta.RemovedIntervals).Msg("applied")
		case "remove":
			delta := tr.RemoveInterval(id)
			log.Info().Int("step", i).Str("op", "remove").Str("id", id).
				Strs("restored", delta.RestoredIntervals).Msg("applied")
		case "modify":
			addDelta, removeDelta := tr.ModifyInterval(id, op.Lo, op.Hi, op.OpenLo, op.OpenHi)
			log.Info().Int("step", i).Str("op", "modify").Str("id", id).
				Strs("removed", addDelta.RemovedIntervals).
				Strs("restored", removeDelta.RestoredIntervals).Msg("applied")
		default:
			return errors.Errorf("scenario step %d: unknown op %q", i, op.Op)
		}
	}

	log.Info().Bool("disjoint", tr.IsDisjoint()).Msg("scenario complete")
	return nil
}
