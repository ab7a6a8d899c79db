package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var spaceDefaultBranch string

// spaceCmd is the parent command for space operations.
var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Manage spaces",
}

var spaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a space with its default branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, l, err := setupService()
		if err != nil {
			return err
		}

		space, branch, err := svc.CreateSpace(context.Background(), args[0], spaceDefaultBranch)
		if err != nil {
			return err
		}
		l.Info("Space created",
			zap.String("id", space.ID),
			zap.String("name", space.Name),
			zap.String("default_branch", branch.Name),
			zap.String("default_branch_id", branch.ID),
		)
		return nil
	},
}

var spaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, l, err := setupService()
		if err != nil {
			return err
		}

		spaces, err := svc.ListSpaces(context.Background())
		if err != nil {
			return err
		}
		for _, s := range spaces {
			l.Info("Space", zap.String("id", s.ID), zap.String("name", s.Name))
		}
		return nil
	},
}

func init() {
	spaceCreateCmd.Flags().StringVar(&spaceDefaultBranch, "default-branch", "main", "Name of the default branch")
	spaceCmd.AddCommand(spaceCreateCmd)
	spaceCmd.AddCommand(spaceListCmd)
	RootCmd.AddCommand(spaceCmd)
}
