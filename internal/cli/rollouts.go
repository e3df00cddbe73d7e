package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	rolloutv1 "experimentation-control-plane/api/rollout/v1"
)

func newRolloutsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rollouts",
		Aliases: []string{"ro"},
		Short:   "Stage model versions to a growing share of users",
	}
	client := func(conn *grpc.ClientConn) rolloutv1.RolloutServiceClient {
		return rolloutv1.NewRolloutServiceClient(conn)
	}

	var (
		in     rolloutv1.CreateRolloutRequest
		stages []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a pending rollout",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Schedule.Stages, err = parseStages(stages); err != nil {
				return err
			}
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).CreateRollout(ctx, &in)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Rollout name (unique)")
	create.Flags().StringVar(&in.Description, "description", "", "Description")
	create.Flags().StringVar(&in.ModelVersion, "model", "", "Model version being rolled out")
	create.Flags().StringArrayVar(&stages, "stage", nil, "Stage as percentage:hours, e.g. 10:1 (repeatable, in order)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("model")

	list := &cobra.Command{
		Use:   "list",
		Short: "List rollouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).ListRollouts(ctx, &rolloutv1.ListRolloutsRequest{})
			})
		},
	}

	byID := func(use, short string, fn func(ctx context.Context, c rolloutv1.RolloutServiceClient, id string) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <rollout-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
					return fn(ctx, client(conn), args[0])
				})
			},
		}
	}
	get := byID("get", "Show one rollout", func(ctx context.Context, c rolloutv1.RolloutServiceClient, id string) (any, error) {
		return c.GetRollout(ctx, &rolloutv1.GetRolloutRequest{ID: id})
	})
	start := byID("start", "Start a pending rollout now", func(ctx context.Context, c rolloutv1.RolloutServiceClient, id string) (any, error) {
		return c.StartRollout(ctx, &rolloutv1.StartRolloutRequest{ID: id})
	})
	evaluate := byID("evaluate", "Evaluate health and advance, complete or roll back", func(ctx context.Context, c rolloutv1.RolloutServiceClient, id string) (any, error) {
		return c.EvaluateRollout(ctx, &rolloutv1.EvaluateRolloutRequest{ID: id})
	})
	rollback := byID("rollback", "Roll back to 0%", func(ctx context.Context, c rolloutv1.RolloutServiceClient, id string) (any, error) {
		return c.RollbackRollout(ctx, &rolloutv1.RollbackRolloutRequest{ID: id})
	})
	del := byID("delete", "Delete a rollout that is not in progress", func(ctx context.Context, c rolloutv1.RolloutServiceClient, id string) (any, error) {
		return c.DeleteRollout(ctx, &rolloutv1.DeleteRolloutRequest{ID: id})
	})

	active := &cobra.Command{
		Use:   "active <model-version>",
		Short: "Show the in-progress rollout of a model version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).GetActiveRollout(ctx, &rolloutv1.GetActiveRolloutRequest{ModelVersion: args[0]})
			})
		},
	}
	check := &cobra.Command{
		Use:   "check <model-version> <user-id>",
		Short: "Report whether a user is served the new model version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).CheckRollout(ctx, &rolloutv1.CheckRolloutRequest{ModelVersion: args[0], UserID: args[1]})
			})
		},
	}
	include := &cobra.Command{
		Use:   "includes <rollout-id> <user-id>",
		Short: "Report whether a rollout currently includes a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return client(conn).ShouldUseNewVersion(ctx, &rolloutv1.ShouldUseNewVersionRequest{RolloutID: args[0], UserID: args[1]})
			})
		},
	}

	cmd.AddCommand(create, list, get, start, evaluate, rollback, del, active, check, include)
	return cmd
}

// parseStages reads "percentage:hours" values in order.
func parseStages(values []string) ([]rolloutv1.Stage, error) {
	out := make([]rolloutv1.Stage, 0, len(values))
	for _, v := range values {
		pct, hours, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("--stage %q: want percentage:hours", v)
		}
		p, err := strconv.ParseInt(strings.TrimSpace(pct), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("--stage %q: percentage: %w", v, err)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(hours), 64)
		if err != nil {
			return nil, fmt.Errorf("--stage %q: hours: %w", v, err)
		}
		out = append(out, rolloutv1.Stage{Percentage: int32(p), DurationHours: h})
	}
	return out, nil
}
