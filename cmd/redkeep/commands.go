package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/redkeep/pkg/store"
)

var (
	setCmd = &cobra.Command{
		Use:                "set [key] [value]",
		Short:              "Sets the value for a key",
		Args:               cobra.ExactArgs(2),
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kv.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}

	setnxCmd = &cobra.Command{
		Use:                "setnx [key] [value]",
		Short:              "Sets the value for a key only if it is absent",
		Args:               cobra.ExactArgs(2),
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := kv.SetIfAbsent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if ok {
				fmt.Println("OK")
			} else {
				fmt.Println("key already exists")
			}
			return nil
		},
	}

	getCmd = &cobra.Command{
		Use:                "get [key]",
		Short:              "Reads the value for a key",
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := kv.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("key %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	delCmd = &cobra.Command{
		Use:                "del [key]",
		Short:              "Deletes a key",
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kv.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}

	scanCmd = &cobra.Command{
		Use:                "scan [pattern]",
		Short:              "Prints every value whose key matches the glob pattern",
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			for data, err := range kv.Scan(cmd.Context(), args[0]) {
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			}
			return nil
		},
	}

	pingCmd = &cobra.Command{
		Use:                "ping",
		Short:              "Checks connectivity to the store",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kv.Healthcheck()(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("PONG")
			return nil
		},
	}
)
