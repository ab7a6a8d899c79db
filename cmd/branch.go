package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	branchSpaceID string
	branchBaseID  string
)

// branchCmd is the parent command for branch lifecycle operations.
var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage translation branches",
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches in a space",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, l, err := setupService()
		if err != nil {
			return err
		}

		branchList, err := svc.ListBranches(context.Background(), branchSpaceID)
		if err != nil {
			return err
		}
		for _, b := range branchList {
			l.Info("Branch",
				zap.String("id", b.ID),
				zap.String("name", b.Name),
				zap.Bool("default", b.IsDefault),
			)
		}
		return nil
	},
}

var branchCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Clone a new branch (from the space default unless --base is given)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, l, err := setupService()
		if err != nil {
			return err
		}

		branch, err := svc.CreateBranch(context.Background(), branchSpaceID, args[0], branchBaseID)
		if err != nil {
			return err
		}
		l.Info("Branch created", zap.String("id", branch.ID), zap.String("name", branch.Name))
		return nil
	},
}

var branchDeleteCmd = &cobra.Command{
	Use:   "delete <branch-id>",
	Short: "Delete a non-default branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, l, err := setupService()
		if err != nil {
			return err
		}

		if err := svc.DeleteBranch(context.Background(), args[0]); err != nil {
			return err
		}
		l.Info("Branch deleted", zap.String("id", args[0]))
		return nil
	},
}

func init() {
	branchCmd.PersistentFlags().StringVar(&branchSpaceID, "space", "", "Space ID")
	branchCreateCmd.Flags().StringVar(&branchBaseID, "base", "", "Base branch ID (space default when omitted)")
	_ = branchCmd.MarkPersistentFlagRequired("space")

	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchDeleteCmd)
	RootCmd.AddCommand(branchCmd)
}
