package main

import (
	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Endpoints only need their dependencies when serving, so an empty
	// config is enough to build the client commands.
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		registry.Register(ep)
	}
	apiCmd := registry.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	rootCmd.AddCommand(apiCmd)
}
