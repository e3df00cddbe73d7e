package cli

import (
	"context"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	auditv1 "experimentation-control-plane/api/audit/v1"
)

func newAuditCmd(g *globals) *cobra.Command {
	var req auditv1.ListAuditLogsRequest
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, conn *grpc.ClientConn) (any, error) {
				return auditv1.NewAuditServiceClient(conn).ListAuditLogs(ctx, &req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Resource, "resource", "", "Filter by resource (experiment, rollout)")
	cmd.Flags().StringVar(&req.ResourceID, "resource-id", "", "Filter by experiment or rollout id")
	cmd.Flags().StringVar(&req.Action, "action", "", "Filter by action (created, start, rolled_back, ...)")
	cmd.Flags().Int32Var(&req.Limit, "limit", 50, "Page size")
	cmd.Flags().Int32Var(&req.Offset, "offset", 0, "Page offset")
	return cmd
}
