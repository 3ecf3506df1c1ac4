package api

import (
	"github.com/suryatmodulus/pg-replicate/pkg/config"
	"github.com/suryatmodulus/pg-replicate/pkg/sources"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// CreateSourceRequest registers a new source database for a tenant
type CreateSourceRequest struct {
	Name   string        `json:"name"`
	Config config.Source `json:"config"`
}

// UpdateSourceRequest replaces the name and connection config of a source
type UpdateSourceRequest struct {
	Name   string        `json:"name"`
	Config config.Source `json:"config"`
}

// SourceResponse is the read shape of a source. The connection config is
// stripped of its password before it reaches a response.
type SourceResponse struct {
	ID       string        `json:"id"`
	TenantID string        `json:"tenant_id"`
	Name     string        `json:"name"`
	Config   config.Source `json:"config"`
}

func toSourceResponse(src sources.Source) SourceResponse {
	stripped := src.Stripped()
	return SourceResponse{
		ID:       stripped.ID,
		TenantID: stripped.TenantID,
		Name:     stripped.Name,
		Config:   stripped.Config,
	}
}

// ListSourcesResponse wraps the sources of one tenant
type ListSourcesResponse struct {
	Sources []SourceResponse `json:"sources"`
}
