package main

import (
	"context"
	"io"

	"github.com/okian/hackboard/pkg/logger"
	"github.com/spf13/cobra"
)

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Record one score snapshot for every active event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd.Context(), cmd.ErrOrStderr())
		},
	}
}

func runSnapshot(ctx context.Context, logOut io.Writer) error {
	cfg, store, err := bootstrap(ctx, logOut)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := newService(cfg, store).Snapshot(ctx); err != nil {
		return err
	}
	logger.Get().Info(ctx, "snapshot recorded")
	return nil
}
