package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	experimentv1 "experimentation-control-plane/api/experiment/v1"
)

func newExperimentsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiments",
		Aliases: []string{"exp"},
		Short:   "Create, run and analyze A/B experiments",
	}
	client := func(conn *grpc.ClientConn) experimentv1.ExperimentServiceClient {
		return experimentv1.NewExperimentServiceClient(conn)
	}

	var (
		in       experimentv1.CreateExperimentRequest
		variants []string
		splits   []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a draft experiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Variants, err = parseVariants(variants); err != nil {
				return err
			}
			if in.TrafficAllocation, err = parseSplits(splits); err != nil {
				return err
			}
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).CreateExperiment(ctx, &in)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Experiment name (unique)")
	create.Flags().StringVar(&in.Description, "description", "", "Description")
	create.Flags().StringArrayVar(&variants, "variant", nil, `Variant key, optionally with JSON config: key or key={"color":"red"} (repeatable)`)
	create.Flags().StringArrayVar(&splits, "split", nil, "Traffic share per variant: key=fraction (repeatable, must sum to 1)")
	create.Flags().StringVar(&in.SuccessMetric, "metric", "", "Event type counted as success")
	create.Flags().Int32Var(&in.MinimumSampleSize, "min-sample", 0, "Minimum users per variant (server default when 0)")
	create.Flags().Float64Var(&in.ConfidenceLevel, "confidence", 0, "Confidence level between 0.8 and 0.99 (server default when 0)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("metric")

	list := &cobra.Command{
		Use:   "list",
		Short: "List experiments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).ListExperiments(ctx, &experimentv1.ListExperimentsRequest{})
			})
		},
	}

	byID := func(use, short string, fn func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <experiment-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
					return fn(ctx, client(conn), args[0])
				})
			},
		}
	}
	get := byID("get", "Show one experiment", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.GetExperiment(ctx, &experimentv1.GetExperimentRequest{ID: id})
	})
	start := byID("start", "Start a draft experiment", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.StartExperiment(ctx, &experimentv1.StartExperimentRequest{ID: id})
	})
	pause := byID("pause", "Pause a running experiment", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.PauseExperiment(ctx, &experimentv1.PauseExperimentRequest{ID: id})
	})
	resume := byID("resume", "Resume a paused experiment", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.ResumeExperiment(ctx, &experimentv1.ResumeExperimentRequest{ID: id})
	})
	complete := byID("complete", "Complete a running or paused experiment", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.CompleteExperiment(ctx, &experimentv1.CompleteExperimentRequest{ID: id})
	})
	del := byID("delete", "Delete an experiment that is not running", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.DeleteExperiment(ctx, &experimentv1.DeleteExperimentRequest{ID: id})
	})
	results := byID("results", "Show per-variant results and significance", func(ctx context.Context, c experimentv1.ExperimentServiceClient, id string) (any, error) {
		return c.GetResults(ctx, &experimentv1.GetResultsRequest{ExperimentID: id})
	})

	assign := &cobra.Command{
		Use:   "assign <experiment-id> <user-id>",
		Short: "Assign a user to a variant (sticky)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).AssignVariant(ctx, &experimentv1.AssignVariantRequest{ExperimentID: args[0], UserID: args[1]})
			})
		},
	}
	variant := &cobra.Command{
		Use:   "variant <experiment-id> <user-id>",
		Short: "Show a user's existing assignment without assigning",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).GetUserVariant(ctx, &experimentv1.GetUserVariantRequest{ExperimentID: args[0], UserID: args[1]})
			})
		},
	}

	var eventData string
	track := &cobra.Command{
		Use:   "track <experiment-id> <user-id> <event-type>",
		Short: "Record an event for an assigned user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &experimentv1.TrackEventRequest{ExperimentID: args[0], UserID: args[1], EventType: args[2]}
			if eventData != "" {
				if !json.Valid([]byte(eventData)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				req.EventData = json.RawMessage(eventData)
			}
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).TrackEvent(ctx, req)
			})
		},
	}
	track.Flags().StringVar(&eventData, "data", "", "Event payload as JSON")

	cmd.AddCommand(create, list, get, start, pause, resume, complete, del, assign, variant, track, results)
	return cmd
}

// parseVariants reads "key" or "key=<json>" values.
func parseVariants(values []string) ([]experimentv1.Variant, error) {
	out := make([]experimentv1.Variant, 0, len(values))
	for _, v := range values {
		key, cfg, hasCfg := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("--variant %q: empty key", v)
		}
		variant := experimentv1.Variant{Key: key}
		if hasCfg {
			if !json.Valid([]byte(cfg)) {
				return nil, fmt.Errorf("--variant %q: config is not valid JSON", v)
			}
			variant.Config = json.RawMessage(cfg)
		}
		out = append(out, variant)
	}
	return out, nil
}

// parseSplits reads "key=fraction" values in order.
func parseSplits(values []string) ([]experimentv1.Allocation, error) {
	out := make([]experimentv1.Allocation, 0, len(values))
	for _, v := range values {
		key, frac, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("--split %q: want key=fraction", v)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(frac), 64)
		if err != nil {
			return nil, fmt.Errorf("--split %q: %w", v, err)
		}
		out = append(out, experimentv1.Allocation{Key: strings.TrimSpace(key), Fraction: f})
	}
	return out, nil
}
