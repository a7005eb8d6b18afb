// Command clicker is a headless player. It presses at a configurable rate,
// batches the presses through the click queue, flushes them on the standard
// cadence, and keeps the leaderboard and community meter fresh, which makes
// it both a demo client and a low-effort load generator.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"debirunpop/internal/client"
	"debirunpop/internal/logger"
	"debirunpop/internal/names"
	"debirunpop/internal/progress"
	"debirunpop/internal/streak"
	"debirunpop/internal/storage"
)

const (
	flushInterval       = 1500 * time.Millisecond
	communityInterval   = 3 * time.Second
	leaderboardInterval = 5 * time.Second
	idleFirst           = 5 * time.Second
	idleRepeat          = 10 * time.Second
)

func main() {
	logger.Initialize()

	var (
		apiFlag   = flag.String("api", "", "API base URL (default: DEBIRUN_API env, prefs, then "+client.DefaultBaseURL+")")
		nameFlag  = flag.String("name", "", "player name (default: persisted prefs, else a generated agent name)")
		cps       = flag.Float64("cps", 4, "average clicks per second")
		duration  = flag.Duration("duration", 0, "how long to play (0 = until interrupted)")
		prefsPath = flag.String("prefs", client.DefaultPrefsPath(), "prefs file path")
		target    = flag.Int("streak-target", 30, "presses per streak bonus")
	)
	flag.Parse()

	prefs, err := client.LoadPrefs(*prefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("loading prefs, using defaults")
	}

	name := names.Sanitize(*nameFlag)
	if name == "" {
		name = prefs.Name
	}
	if name == "" {
		name = names.Sanitize("agent-" + uuid.NewString()[:8])
	}

	api := client.NewAPI(client.ResolveBaseURL(*apiFlag, prefs.API))

	prefs.Name = name
	if err := client.SavePrefs(*prefsPath, prefs); err != nil {
		log.Warn().Err(err).Msg("saving prefs")
	}

	log.Info().Str("name", name).Str("api", api.BaseURL).Float64("cps", *cps).Msg("clicker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	queue := &client.Queue{}

	community := &client.CommunityPoller{
		Interval: communityInterval,
		Fetch:    api.Community,
		Apply:    reportCommunity(),
	}

	flusher := &client.Flusher{
		Queue:    queue,
		Name:     name,
		Interval: flushInterval,
		Submit:   api.SubmitScore,
		// A just-accepted flush refreshes the meter right away.
		OnSuccess: community.Kick,
	}

	leaderboard := &client.LeaderboardPoller{
		Interval: leaderboardInterval,
		Fetch:    api.Leaderboard,
		Apply:    reportLeaderboard(name),
	}

	var wg sync.WaitGroup
	for _, run := range []func(context.Context){flusher.Run, community.Run, leaderboard.Run} {
		wg.Add(1)
		go func(f func(context.Context)) {
			defer wg.Done()
			f(ctx)
		}(run)
	}

	press(ctx, queue, *cps, streak.NewDetector(streak.Config{
		Target:      *target,
		ResetWindow: 1500 * time.Millisecond,
	}))

	stop()
	wg.Wait()
	log.Info().Int64("unsent", queue.Pending()).Msg("clicker stopped")
}

// press generates pointer presses until ctx is done. The gaps are jittered
// around the configured rate, and now and then the bot takes a breather
// long enough to break its own streak, which exercises the reset path.
func press(ctx context.Context, queue *client.Queue, cps float64, detector *streak.Detector) {
	if cps <= 0 {
		cps = 1
	}
	mean := time.Duration(float64(time.Second) / cps)
	idle := time.NewTimer(idleFirst)
	defer idle.Stop()

	score := 0
	for {
		gap := time.Duration(float64(mean) * (0.5 + rand.Float64()))
		if rand.Intn(100) == 0 {
			gap = 2 * time.Second // breather, drops the streak
		}

		select {
		case <-ctx.Done():
			return
		case <-idle.C:
			log.Info().Msg("psst, the screen is waiting to be poked")
			idle.Reset(idleRepeat)
			continue
		case <-time.After(gap):
		}

		score++
		queue.Record()
		if detector.Press(time.Now()) {
			log.Info().Int("streak", detector.Count()).Int("score", score).Msg("streak bonus")
		}

		idle.Stop()
		idle.Reset(idleFirst)
	}
}

func reportCommunity() func(int64) {
	lastLevel := 0
	return func(total int64) {
		p := progress.Compute(total, 1000, 1.25)
		if p.Level > lastLevel {
			if lastLevel > 0 {
				log.Info().Int("level", p.Level).Msg("community level up")
			}
			lastLevel = p.Level
		}
		log.Debug().
			Int64("total", total).
			Int("level", p.Level).
			Int64("inLevel", p.ScoreInLevel).
			Int64("goal", p.Goal).
			Float64("pct", p.Percent()).
			Msg("community")
	}
}

func reportLeaderboard(me string) func([]storage.Entry) {
	return func(entries []storage.Entry) {
		for i, e := range entries {
			if e.Name == me {
				log.Debug().Int("rank", i+1).Int64("score", e.Score).Msg("leaderboard position")
				return
			}
		}
		log.Debug().Int("players", len(entries)).Msg("not on the board yet")
	}
}
