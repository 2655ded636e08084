package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/redkeep/pkg/logger"
	"github.com/dmitrymomot/redkeep/pkg/store"
)

const version = "0.1.0"

var (
	kv *store.Store

	flagURL     string
	flagVerbose bool

	rootCmd = &cobra.Command{
		Use:   "redkeep",
		Short: "resilient key-value store client",
		Long: fmt.Sprintf(`redkeep (v%s)

A command-line client for Redis and Redis Sentinel deployments that
transparently reconnects on connection loss and follows master failover.`, version),
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of redkeep",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("redkeep v%s\n", version)
		},
	}
)

func init() {
	cobra.OnInitialize(func() {
		// Best effort; a missing .env file is not an error.
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "",
		"store connection string (defaults to $REDKEEP_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"log connection and reconnection events")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(setnxCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(delCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pingCmd)
}

// setupStore connects the shared store client; used as PersistentPreRunE by
// every command that talks to the store.
func setupStore(cmd *cobra.Command, _ []string) error {
	url := flagURL
	if url == "" {
		url = os.Getenv("REDKEEP_URL")
	}
	if url == "" {
		return fmt.Errorf("no connection string: set --url or REDKEEP_URL")
	}

	log := logger.NewNope()
	if flagVerbose {
		log = logger.New(logger.WithComponent("redkeep"))
	}

	s, err := store.New(cmd.Context(), url,
		store.WithLogger(log),
		store.WithEncoder(store.BytesEncoder{}),
	)
	if err != nil {
		return err
	}

	kv = s
	return nil
}

func teardownStore(cmd *cobra.Command, _ []string) error {
	if kv == nil {
		return nil
	}
	return kv.Close()
}
