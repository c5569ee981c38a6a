package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// areaProperties returns the schema properties every area tool accepts.
// Each call returns a fresh map so tools can add their own options.
func areaProperties() map[string]interface{} {
	return map[string]interface{}{
		"annotation_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the polygon annotation JSON file (shapes with label and points)",
		},
		"image_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the annotated image; its width and height define the canvas",
		},
		"labels": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Optional ordered label set. Defaults to the configured labels",
		},
	}
}

var areaRequired = []string{"annotation_path", "image_path"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	chartProps := areaProperties()
	chartProps["title"] = map[string]interface{}{
		"type":        "string",
		"description": "Chart title. Default \"Heart Area Breakdown\"",
	}

	overlayProps := areaProperties()
	overlayProps["opacity"] = map[string]interface{}{
		"type":        "number",
		"description": "Tint opacity from 0 to 1; 0 draws no tint. Default from configuration (0.4)",
	}
	overlayProps["outline"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw each label's boundary fully opaque",
	}
	overlayProps["max_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Downscale so the longer edge is at most this many pixels. 0 keeps full size",
	}

	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "area_analyze",
			Description: "Rasterize each label's polygons onto the image canvas and return the pixel area and percentage share of every label. Overlapping polygons of one label count once; labels are not deduplicated against each other.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": areaProperties(),
				"required":   areaRequired,
			},
		},
		{
			Name:        "area_pie_chart",
			Description: "Render the label percentage breakdown as a PNG pie chart, returned base64-encoded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": chartProps,
				"required":   areaRequired,
			},
		},
		{
			Name:        "area_mask_overlay",
			Description: "Tint every label's filled mask over the source image and return it as base64-encoded PNG with a color legend. Use this to check which pixels each label covers.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": overlayProps,
				"required":   areaRequired,
			},
		},
		{
			Name:        "area_csv",
			Description: "Return the areas and percentages tables as CSV text, one row per label in label order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": areaProperties(),
				"required":   areaRequired,
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
