package services

import (
	"context"
	"net/http"

	"todo-list/internal/config"
	"todo-list/internal/repository"
)

// NewServiceContainer wires every service over one key-value store.
// httpClient may be nil.
func NewServiceContainer(kv repository.KeyValueStore, cfg *config.Config, httpClient *http.Client) *ServiceContainer {
	return &ServiceContainer{
		TaskService:  NewTaskStore(kv, cfg),
		QuoteService: NewQuoteService(cfg.Quote, httpClient),
		QuoteBoard:   NewQuoteBoard(),
		ModeService:  NewDisplayMode(kv, cfg.Display),
	}
}

// Initialize loads persisted tasks and the display mode
func (c *ServiceContainer) Initialize(ctx context.Context) error {
	if _, err := c.TaskService.Initialize(ctx); err != nil {
		return err
	}
	if _, err := c.ModeService.Load(ctx); err != nil {
		return err
	}
	return nil
}
