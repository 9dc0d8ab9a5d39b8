// Package service provides the registry that routes tool calls to providers.
//
// Tool IDs take the form "<service>.<operation>"; the registry looks up the
// provider by the service part and hands the whole call over.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(terminal.NewProvider(manager))
//	tools := registry.FindTools("log", 5)
//	result, err := registry.Execute(ctx, "terminal.run", params, nil)
package service
