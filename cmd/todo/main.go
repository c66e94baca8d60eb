package main

import (
	"context"
	"fmt"
	"os"

	"todo-list/internal/cli"
	"todo-list/internal/config"
	"todo-list/internal/repository"
)

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// The store is opened after flags are applied, so --db-dir and friends take effect
	env := config.GetEnvironment()
	openStore := func(cfg *config.Config) (repository.KeyValueStore, error) {
		return config.CreateStoreForEnvironment(env, cfg)
	}

	root := cli.NewRootCommand(cfg, openStore)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
