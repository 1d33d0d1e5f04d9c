package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// filtersSchema is shared by the search tools
func filtersSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional filters to narrow the catalog subset",
		"properties": map[string]interface{}{
			"category": map[string]interface{}{
				"type":        "string",
				"description": "Part category (e.g. brake, engine)",
			},
			"vehicle_make": map[string]interface{}{
				"type":        "string",
				"description": "Vehicle manufacturer",
			},
			"vehicle_model": map[string]interface{}{
				"type":        "string",
				"description": "Vehicle model",
			},
		},
	}
}

// searchPartsTool returns the tool definition for search_parts
func searchPartsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_parts",
		Description: "Search the auto parts catalog with a free-text query: part names, OEM codes, Persian or mixed-script text, typos included",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (part name, alias, or OEM code)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"filters": filtersSchema(),
				"disable_ai": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, skip the AI strategies and use only exact, synonym, and fuzzy matching",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchPartsBulkTool returns the tool definition for search_parts_bulk
func searchPartsBulkTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_parts_bulk",
		Description: "Search one query per line of a pasted order list; every input line appears in the output with its 1-based line number",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Newline-separated queries, e.g. a pasted order list",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum results per line (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
				"filters": filtersSchema(),
			},
			Required: []string{"text"},
		},
	}
}

// catalogStatusTool returns the tool definition for catalog_status
func catalogStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "catalog_status",
		Description: "Report catalog statistics, the active snapshot, and AI provider availability",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// refreshCatalogTool returns the tool definition for refresh_catalog
func refreshCatalogTool() mcp.Tool {
	return mcp.Tool{
		Name:        "refresh_catalog",
		Description: "Rebuild the in-memory catalog snapshot from storage immediately",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
