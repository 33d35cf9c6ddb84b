package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/cheynewallace/tabby"
	"github.com/redis/go-redis/v9"

	"spellcorpus/internal/config"
	"spellcorpus/internal/learner"
	"spellcorpus/internal/pipeline"
	"spellcorpus/internal/store"
	"spellcorpus/internal/tagger"
	"spellcorpus/internal/wordlist"
)

func main() {
	configPath := flag.String("config", "config.cfg", "KEY=VALUE configuration file, empty to use the environment only")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource it opens so that deferred closes happen before
// main exits, on failures too.
func run(configPath string) error {
	cfg, warnings, err := config.Load(configPath)
	for _, w := range warnings {
		log.Printf("config: %s", w)
	}
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.Default()
	deps := pipeline.Deps{Logger: logger}

	switch {
	case cfg.TriggerWordsFile != "":
		deps.Triggers = wordlist.File(cfg.TriggerWordsFile)
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		deps.Triggers = wordlist.NewRedisStore(client, cfg.RedisKey)
	}

	if cfg.TaggerCommand != "" {
		t, err := tagger.NewCommand(cfg.TaggerCommand)
		if err != nil {
			return fmt.Errorf("tagger: %w", err)
		}
		deps.Tagger = t
	}

	if cfg.VocabularyStore != "" {
		vs, err := store.Open(cfg.VocabularyStore)
		if err != nil {
			return fmt.Errorf("init error: %w", err)
		}
		defer vs.Close()
		deps.Store = vs
	}

	if cfg.Learn {
		crf := learner.NewCRFPP(logger)
		if err := crf.Available(ctx); err != nil {
			return fmt.Errorf("init error: %w", err)
		}
		deps.Learner = crf
	}

	sum, err := pipeline.Run(ctx, cfg, deps)
	if err != nil {
		return fmt.Errorf("run error: %w", err)
	}
	printSummary(sum)
	return nil
}

func printSummary(sum pipeline.Summary) {
	table := tabby.New()
	table.AddHeader("Step", "Value")
	table.AddLine("sentences loaded", sum.Loaded)
	table.AddLine("sentences with trigger words", sum.Kept)
	table.AddLine("trigger words", sum.Triggers)
	table.AddLine("training sentences", sum.TrainingSize)
	table.AddLine("test sentences", sum.TestSize)
	table.AddLine("errors in training set", sum.TrainingInjected)
	table.AddLine("errors in test set", sum.TestInjected)
	table.AddLine("blocks without errors", sum.Misses)
	if e := sum.Evaluation; e != nil {
		table.AddLine("correct detections", e.Correct)
		table.AddLine("incorrect detections", e.Incorrect)
		table.AddLine("undetected errors", e.Undetected())
		table.AddLine("precision", fmt.Sprintf("%.2f%%", 100*e.Precision()))
		table.AddLine("recall", fmt.Sprintf("%.2f%%", 100*e.Recall()))
		table.AddLine("F-measure", fmt.Sprintf("%.2f%%", 100*learner.FMeasure(e.Precision(), e.Recall(), 1)))
	}
	table.Print()
	fmt.Printf("\n%d files written\n", len(sum.Written))
}
