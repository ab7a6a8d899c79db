package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"translation-manager/core/diffmerge"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mergeFavor              string
	mergePropagateDeletions bool
	mergeDryRun             bool
	mergeYes                bool
)

// mergeCmd merges a source branch into a target branch.
var mergeCmd = &cobra.Command{
	Use:   "merge <source-branch-id> <target-branch-id>",
	Short: "Merge the source branch into the target branch",
	Long: `Apply the source branch's changes to the target branch as a single
transaction. Conflicts must be covered by the --favor policy; without it,
a conflicting merge is blocked and the conflicts are listed.

Examples:
  # Plan only (no writes)
  merge <source> <target> --dry-run

  # Merge, resolving all conflicts in favor of the source branch
  merge <source> <target> --favor source --yes

  # Merge and propagate key deletions to the target
  merge <source> <target> --propagate-deletions --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeFavor, "favor", "", "Bulk conflict policy: source or target")
	mergeCmd.Flags().BoolVar(&mergePropagateDeletions, "propagate-deletions", false, "Delete target keys that are absent in the source")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Compute the change set without applying anything")
	mergeCmd.Flags().BoolVar(&mergeYes, "yes", false, "Auto-confirm (non-interactive)")
	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	svc, _, l, err := setupService()
	if err != nil {
		return err
	}

	var policy diffmerge.Policy
	switch mergeFavor {
	case "":
		policy = diffmerge.PolicyNone
	case "source":
		policy = diffmerge.PolicyFavorSource
	case "target":
		policy = diffmerge.PolicyFavorTarget
	default:
		return fmt.Errorf("invalid --favor value %q (want source or target)", mergeFavor)
	}

	opts := diffmerge.MergeOptions{
		Policy:             policy,
		PropagateDeletions: mergePropagateDeletions,
		DryRun:             mergeDryRun,
	}

	if !mergeDryRun && !mergeYes {
		if !confirmMerge() {
			l.Warn("Merge cancelled. No changes were made.")
			return nil
		}
	}

	result, err := svc.Merge(context.Background(), args[0], args[1], nil, opts)

	var conflictErr *diffmerge.ConflictError
	if errors.As(err, &conflictErr) {
		l.Warn("Merge blocked by unresolved conflicts", zap.Int("conflicts", len(result.Conflicts)))
		for _, c := range result.Conflicts {
			l.Warn("Conflict",
				zap.String("key", c.Key),
				zap.String("language", c.Language),
				zap.Stringp("source", c.Source),
				zap.Stringp("target", c.Target),
			)
		}
		l.Info("Retry with --favor source or --favor target to resolve in bulk.")
		return nil
	}
	if err != nil {
		return err
	}

	if mergeDryRun {
		l.Info("Dry-run: no changes were made",
			zap.Int("would_merge", result.MergedCount),
			zap.Int("keys_added", result.Summary.KeysAdded),
			zap.Int("values_updated", result.Summary.ValuesUpdated),
			zap.Int("keys_deleted", result.Summary.KeysDeleted),
		)
		return nil
	}

	l.Info("Merge applied",
		zap.Int("merged", result.MergedCount),
		zap.Int("keys_added", result.Summary.KeysAdded),
		zap.Int("values_updated", result.Summary.ValuesUpdated),
		zap.Int("keys_deleted", result.Summary.KeysDeleted),
		zap.Int("conflicts_resolved", result.Summary.ConflictsResolved),
	)
	return nil
}

// confirmMerge asks for interactive confirmation before writing.
func confirmMerge() bool {
	fmt.Print("Apply merge to the target branch? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
