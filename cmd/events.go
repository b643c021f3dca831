/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/worldcup-api/apiserver/config"
	"github.com/worldcup-api/apiserver/internal/mq"
	"github.com/worldcup-api/apiserver/internal/services"
)

// eventsCmd groups commands that work with the auth audit stream.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect auth audit events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print auth audit events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not set")
		}
		defer broker.Close()

		err = broker.Subscribe(ctx, cfg.MQ.Channel, printEvent(cmd.OutOrStdout()))
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func printEvent(w io.Writer) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var event services.AuthEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// Undecodable payloads are skipped, not requeued.
			fmt.Fprintf(w, "skip %s: %v\n", msg.ID, err)
			return nil
		}
		fmt.Fprintf(w, "%s %s user=%d email=%s\n",
			event.At.Format("2006-01-02T15:04:05Z07:00"), event.Type, event.UserID, event.Email)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
