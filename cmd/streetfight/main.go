// Package main runs a street fight between dogs and narrates it on stdout.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cory-johannsen/streetfight/internal/config"
	"github.com/cory-johannsen/streetfight/internal/game/dice"
	"github.com/cory-johannsen/streetfight/internal/game/ecs"
	"github.com/cory-johannsen/streetfight/internal/game/fight"
	"github.com/cory-johannsen/streetfight/internal/game/narration"
	"github.com/cory-johannsen/streetfight/internal/game/roster"
	"github.com/cory-johannsen/streetfight/internal/observability"
	"github.com/cory-johannsen/streetfight/internal/scripting"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one fight and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("streetfight", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	res, err := runFight(cfg, stdout, logger)
	if err != nil {
		logger.Error("street fight failed", zap.Error(err))
		fmt.Fprintf(stderr, "streetfight: %v\n", err)
		return 1
	}

	fields := []zap.Field{
		zap.Int("turns", res.Turns),
		zap.Int("survivors", len(res.Survivors)),
	}
	if res.HasWinner {
		fields = append(fields, zap.String("winner", res.WinnerName))
	}
	logger.Info("street fight over", fields...)
	return 0
}

// runFight wires the configured pieces together and plays the fight to completion.
func runFight(cfg config.Config, stdout io.Writer, logger *zap.Logger) (fight.Result, error) {
	var src dice.Source
	if cfg.Fight.Seed != 0 {
		src = dice.NewSeededSource(cfg.Fight.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	damage, err := cfg.Fight.DamageExpr()
	if err != nil {
		return fight.Result{}, fmt.Errorf("parsing damage: %w", err)
	}

	store, err := ecs.NewStore(cfg.World.Backend)
	if err != nil {
		return fight.Result{}, err
	}

	var r *roster.Roster
	if cfg.Fight.Roster != "" {
		if r, err = roster.Load(cfg.Fight.Roster); err != nil {
			return fight.Result{}, err
		}
	}
	entries := roster.Resolve(cfg.Fight.Names, r)
	ids := roster.Populate(store, entries, cfg.Fight.Shuffle, src)
	logger.Info("fighters spawned",
		zap.Int("count", len(ids)),
		zap.String("backend", cfg.World.Backend),
		zap.Bool("shuffled", cfg.Fight.Shuffle),
	)

	console := narration.NewConsole(stdout)
	narrators := narration.Multi{console}
	if cfg.Scripting.Dir != "" {
		mgr := scripting.NewManager(roller, logger)
		if err := mgr.Load(cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			return fight.Result{}, err
		}
		defer mgr.Close()
		narrators = append(narrators, scripting.NewHooks(mgr))
	}

	f, err := fight.New(store, roller, narrators, logger, fight.Options{
		Turns:  cfg.Fight.Turns,
		Damage: damage,
	})
	if err != nil {
		return fight.Result{}, err
	}
	res := f.Run()
	if err := console.Err(); err != nil {
		return res, fmt.Errorf("writing narration: %w", err)
	}
	return res, nil
}
