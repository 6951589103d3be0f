package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scriptcast/scriptcast/pkg/player"
)

var (
	playSpeed   float64
	playMaxIdle time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <cast>",
	Short: "Replay a recorded cast in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		cast, err := player.Load(f)
		if err != nil {
			return err
		}
		p := player.New(os.Stdout)
		p.Speed = playSpeed
		p.MaxIdle = playMaxIdle
		return p.Play(cast)
	},
}

func init() {
	playCmd.Flags().Float64VarP(&playSpeed, "speed", "s", 1, "Playback speed factor")
	playCmd.Flags().DurationVar(&playMaxIdle, "max-idle", 0, "Cap the gap between events, e.g. 2s")
}
