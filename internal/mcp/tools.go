package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/partkade/partsearch/internal/searcher"
	"github.com/partkade/partsearch/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeCatalogUnavailable = -32001 // Catalog snapshot not loaded
	ErrorCodeEmptyQuery         = -32004 // Query empty after normalization
	ErrorCodeBulkTooLarge       = -32005 // Bulk request exceeds line limit
)

// handleSearchParts handles the search_parts tool invocation
func (s *Server) handleSearchParts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", searcher.DefaultLimit)
	if limit < 1 || limit > searcher.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("limit must be between 1 and %d", searcher.MaxLimit), map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	resp, err := s.engine.Search(ctx, searcher.SearchRequest{
		Query:     query,
		Filters:   parseFilters(args),
		Limit:     limit,
		UseCache:  true,
		DisableAI: getBoolDefault(args, "disable_ai", false),
	})
	if err != nil {
		return nil, searchError(err)
	}

	return mcp.NewToolResultText(formatJSON(searchResponseJSON(resp))), nil
}

// handleSearchPartsBulk handles the search_parts_bulk tool invocation
func (s *Server) handleSearchPartsBulk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 5)
	if limit < 1 || limit > searcher.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("limit must be between 1 and %d", searcher.MaxLimit), map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	lines, err := s.engine.SearchBulk(ctx, searcher.BulkRequest{
		Text:     text,
		Filters:  parseFilters(args),
		Limit:    limit,
		UseCache: true,
	})
	if err != nil {
		return nil, searchError(err)
	}

	linesJSON := make([]map[string]interface{}, len(lines))
	for i, line := range lines {
		entry := map[string]interface{}{
			"line":    line.LineNumber,
			"text":    line.RawText,
			"results": resultsJSON(line.Results),
		}
		if len(line.Warnings) > 0 {
			entry["warnings"] = line.Warnings
		}
		linesJSON[i] = entry
	}

	response := map[string]interface{}{
		"lines":       linesJSON,
		"total_lines": len(lines),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCatalogStatus handles the catalog_status tool invocation
func (s *Server) handleCatalogStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.Status(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read catalog status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"storage": map[string]interface{}{
			"part_count":    status.PartCount,
			"active_count":  status.ActiveCount,
			"synonym_count": status.SynonymCount,
		},
		"ai_provider": s.engine.Provider(),
	}

	snap, err := s.holder.Current()
	if err != nil {
		response["snapshot"] = map[string]interface{}{
			"loaded": false,
		}
	} else {
		response["snapshot"] = map[string]interface{}{
			"loaded":    true,
			"version":   snap.Version(),
			"loaded_at": snap.LoadedAt().Format("2006-01-02T15:04:05Z07:00"),
			"parts":     snap.PartCount(),
			"aliases":   snap.AliasCount(),
			"stale":     s.holder.Stale(),
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRefreshCatalog handles the refresh_catalog tool invocation
func (s *Server) handleRefreshCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.holder.Refresh(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "catalog refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	snap, err := s.holder.Current()
	if err != nil {
		return nil, newMCPError(ErrorCodeCatalogUnavailable, "catalog unavailable after refresh", nil)
	}

	response := map[string]interface{}{
		"refreshed": true,
		"version":   snap.Version(),
		"parts":     snap.PartCount(),
		"aliases":   snap.AliasCount(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Response shaping

func searchResponseJSON(resp *searcher.SearchResponse) map[string]interface{} {
	out := map[string]interface{}{
		"query":            resp.Query,
		"results":          resultsJSON(resp.Results),
		"total_results":    len(resp.Results),
		"ai_used":          resp.AIUsed,
		"cache_hit":        resp.CacheHit,
		"snapshot_version": resp.SnapshotVersion,
		"duration_ms":      resp.Duration.Milliseconds(),
	}
	if len(resp.Warnings) > 0 {
		out["warnings"] = resp.Warnings
	}
	return out
}

func resultsJSON(results []types.RankedResult) []map[string]interface{} {
	out := make([]map[string]interface{}, len(results))
	for i, r := range results {
		out[i] = map[string]interface{}{
			"rank":          r.Rank,
			"score":         r.Score,
			"match_type":    string(r.Type),
			"field_matched": r.FieldMatched,
			"part":          partJSON(r.Part),
		}
	}
	return out
}

func partJSON(part *types.Part) map[string]interface{} {
	out := map[string]interface{}{
		"id":       part.ID,
		"name":     part.Name,
		"oem_code": part.OEMCode,
	}
	// Empty optional fields stay out of the payload
	optional := map[string]string{
		"brand":         part.Brand,
		"vehicle_make":  part.VehicleMake,
		"vehicle_model": part.VehicleModel,
		"trim":          part.Trim,
		"category":      part.Category,
		"subcategory":   part.Subcategory,
		"position":      part.Position,
		"unit":          part.Unit,
	}
	for key, val := range optional {
		if val != "" {
			out[key] = val
		}
	}
	return out
}

// searchError maps engine errors onto MCP error codes
func searchError(err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidQuery):
		return newMCPError(ErrorCodeEmptyQuery, "query is empty after normalization", nil)
	case errors.Is(err, types.ErrCatalogUnavailable):
		return newMCPError(ErrorCodeCatalogUnavailable, "catalog snapshot not loaded", nil)
	case errors.Is(err, searcher.ErrBulkTooLarge):
		return newMCPError(ErrorCodeBulkTooLarge, err.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// parseFilters reads the optional filters object
func parseFilters(args map[string]interface{}) *types.Filters {
	raw, ok := args["filters"].(map[string]interface{})
	if !ok {
		return nil
	}
	f := &types.Filters{
		Category:     getStringDefault(raw, "category", ""),
		VehicleMake:  getStringDefault(raw, "vehicle_make", ""),
		VehicleModel: getStringDefault(raw, "vehicle_model", ""),
	}
	if f.Empty() {
		return nil
	}
	return f
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
