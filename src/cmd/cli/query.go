package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"roi-overlay/src/singleinstance"
)

func newQueryCmd() *cobra.Command {
	var next bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Ask the running overlay for its last (or next) selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := singleinstance.KindLast
			if next {
				kind = singleinstance.KindNext
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			found, text, err := singleinstance.NewClient().Query(ctx, kind)
			if !found {
				return fmt.Errorf("no running overlay found")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&next, "next", false, "Wait for the next completed selection")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait for an answer")
	return cmd
}
