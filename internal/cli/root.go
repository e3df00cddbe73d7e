// Package cli implements expctl, the operator command line for the experiment and rollout APIs.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	defaultAddr    = "localhost:8080"
	defaultTimeout = 10 * time.Second
)

// DialFunc opens a client connection to the API server.
type DialFunc func(addr string) (*grpc.ClientConn, error)

func dialInsecure(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	addr    string
	user    string
	timeout time.Duration
	dial    DialFunc
}

// NewRootCmd returns the expctl command tree. dial may be nil for a plaintext connection to --addr.
func NewRootCmd(dial DialFunc) *cobra.Command {
	if dial == nil {
		dial = dialInsecure
	}
	g := &globals{dial: dial}
	root := &cobra.Command{
		Use:   "expctl",
		Short: "Manage experiments and progressive model rollouts",
		Long: `expctl talks to the experimentation control plane over gRPC.

Examples:
  expctl experiments list
  expctl experiments create --name checkout --variant control --variant treatment \
      --split control=0.5 --split treatment=0.5 --metric purchase
  expctl rollouts create --name ranker-v2 --model ranker-2.0.0 --stage 10:1 --stage 50:2 --stage 100:1
  expctl rollouts check ranker-2.0.0 user-42`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.addr, "addr", defaultAddr, "API server address")
	root.PersistentFlags().StringVar(&g.user, "user", "", "Operator id sent as x-user-id (recorded in the audit log)")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", defaultTimeout, "Per-call timeout")

	root.AddCommand(newExperimentsCmd(g), newRolloutsCmd(g), newAuditCmd(g))
	return root
}

// call dials the server and runs fn with a context carrying the operator id.
func (g *globals) call(cmd *cobra.Command, fn func(ctx context.Context, conn *grpc.ClientConn) (any, error)) error {
	conn, err := g.dial(g.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", g.addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	defer cancel()
	if g.user != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-user-id", g.user)
	}
	out, err := fn(ctx, conn)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
