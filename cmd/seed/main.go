// seed inserts development sample data for local testing: one draft experiment and one pending rollout.
// Idempotent: records whose name already exists are left alone.
package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"experimentation-control-plane/internal/app"
	"experimentation-control-plane/internal/config"
	experimentdomain "experimentation-control-plane/internal/experiment/domain"
	experimentservice "experimentation-control-plane/internal/experiment/service"
	"experimentation-control-plane/internal/platform/logger"
	rolloutdomain "experimentation-control-plane/internal/rollout/domain"
	rolloutservice "experimentation-control-plane/internal/rollout/service"
	"experimentation-control-plane/internal/server/interceptors"
)

const (
	seedActor          = "seed"
	sampleExperiment   = "homepage-cta"
	sampleRollout      = "ranker-v2"
	sampleModelVersion = "ranker-2.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = interceptors.WithIdentity(ctx, seedActor, "")

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("app: %v", err)
	}
	defer a.Close(context.Background())

	if err := seedExperiment(ctx, a.Services.Experiments); err != nil {
		log.Fatalf("seed experiment: %v", err)
	}
	if err := seedRollout(ctx, a.Services.Rollouts); err != nil {
		log.Fatalf("seed rollout: %v", err)
	}
	log.Println("seed: done")
}

func seedExperiment(ctx context.Context, svc *experimentservice.Service) error {
	existing, err := svc.ListExperiments(ctx)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.Name == sampleExperiment {
			log.Printf("seed: experiment %q exists (%s), skipping", e.Name, e.ID)
			return nil
		}
	}
	exp, err := svc.CreateExperiment(ctx, experimentservice.CreateInput{
		Name:        sampleExperiment,
		Description: "Call-to-action copy on the homepage hero",
		Variants: []experimentdomain.Variant{
			{Key: "control", Config: json.RawMessage(`{"label":"Get started"}`)},
			{Key: "treatment", Config: json.RawMessage(`{"label":"Try it free"}`)},
		},
		TrafficAllocation: experimentdomain.Allocations{
			{Key: "control", Fraction: 0.5},
			{Key: "treatment", Fraction: 0.5},
		},
		SuccessMetric:     "signup",
		MinimumSampleSize: 500,
		ConfidenceLevel:   0.95,
	})
	if err != nil {
		return err
	}
	log.Printf("seed: created experiment %q (%s)", exp.Name, exp.ID)
	return nil
}

func seedRollout(ctx context.Context, svc *rolloutservice.Service) error {
	existing, err := svc.ListRollouts(ctx)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.Name == sampleRollout {
			log.Printf("seed: rollout %q exists (%s), skipping", r.Name, r.ID)
			return nil
		}
	}
	r, err := svc.CreateRollout(ctx, rolloutservice.CreateInput{
		Name:         sampleRollout,
		Description:  "Staged rollout of the second-generation ranking model",
		ModelVersion: sampleModelVersion,
		Schedule: rolloutdomain.Schedule{Stages: []rolloutdomain.Stage{
			{Percentage: 10, DurationHours: 1},
			{Percentage: 50, DurationHours: 2},
			{Percentage: 100, DurationHours: 1},
		}},
	})
	if err != nil {
		return err
	}
	log.Printf("seed: created rollout %q (%s)", r.Name, r.ID)
	return nil
}
