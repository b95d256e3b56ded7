package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jakub-m/intervalcore/internal/randseq"
	"github.com/jakub-m/intervalcore/rbtree"
)

func newRunCmd() *cobra.Command {
	var (
		n        int
		random   bool
		shuffle  bool
		seed     int64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Insert a synthetic sequence into the ordered tree base and report rebalance counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(n, random, shuffle, seed)
		},
	}
	cmd.Flags().IntVar(&n, "n", 1000000, "number of values in the sequence")
	cmd.Flags().BoolVar(&random, "r", false, "random integers instead of a dense range")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle the sequence before inserting")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the deterministic generator")
	return cmd
}

func runBench(n int, random, shuffle bool, seed int64) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	g := randseq.New(seed)
	var values []int
	kind := "sequence"
	if random {
		kind = "random"
		values = g.RandomInts(n)
	} else {
		values = g.IntRange(n)
	}
	if shuffle {
		randseq.Shuffle(g, values)
	}

	rotations := 0
	t := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{
		RotateLeft:  func(x, y *rbtree.Node[int, struct{}]) { rotations++ },
		RotateRight: func(x, y *rbtree.Node[int, struct{}]) { rotations++ },
	})

	start := time.Now()
	for _, v := range values {
		t.InsertKey(v)
	}
	elapsed := time.Since(start)

	log.Info().
		Str("kind", kind).
		Int("n", n).
		Bool("shuffled", shuffle).
		Int("rotations", rotations).
		Int("size", t.Len()).
		Dur("elapsed", elapsed).
		Msg("run complete")
	return nil
}
