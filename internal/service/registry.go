package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Boo15mario/linutil-gui/internal/types"
)

// Registry maps service IDs to providers and routes tool calls
type Registry struct {
	services sync.Map
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	if _, loaded := r.services.LoadOrStore(def.ID, provider); loaded {
		return fmt.Errorf("service already registered: %s", def.ID)
	}
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns registered services sorted by ID, optionally filtered by category
func (r *Registry) List(category *types.Category) []types.Service {
	services := []types.Service{}
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})

	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// ScoredTool is a tool matched by FindTools
type ScoredTool struct {
	Service string     `json:"service"`
	Tool    types.Tool `json:"tool"`
	Score   float64    `json:"score"`
}

// FindTools ranks tools by how well query matches their ID, name and
// description. An empty query returns every tool.
func (r *Registry) FindTools(query string, limit int) []ScoredTool {
	words := strings.Fields(strings.ToLower(query))

	var results []ScoredTool
	for _, svc := range r.List(nil) {
		for _, tool := range svc.Tools {
			score := toolRelevance(words, tool)
			if len(words) == 0 || score > 0 {
				results = append(results, ScoredTool{Service: svc.ID, Tool: tool, Score: score})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Execute routes a tool call like "terminal.run" to its provider
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok {
		return types.Failure("invalid tool ID format"), fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	provider, found := r.Get(serviceID)
	if !found {
		return types.Failure("service not found: " + serviceID), fmt.Errorf("service not found: %s", serviceID)
	}

	return provider.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

func toolRelevance(words []string, tool types.Tool) float64 {
	id := strings.ToLower(tool.ID)
	name := strings.ToLower(tool.Name)
	desc := strings.ToLower(tool.Description)

	score := 0.0
	for _, word := range words {
		if strings.Contains(id, word) {
			score += 10.0
		}
		if strings.Contains(name, word) {
			score += 5.0
		}
		if strings.Contains(desc, word) {
			score += 2.0
		}
	}
	return score
}
