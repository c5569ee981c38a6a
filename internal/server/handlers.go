package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/heart-area-tools/internal/analysis"
	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
	"github.com/ironsheep/heart-area-tools/internal/report"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "area_analyze", "area_pie_chart").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(context.Background(), params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each area tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Runs the analysis pipeline with the image read through the cache
//  4. Renders the requested output
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "area_analyze":
		return s.handleAreaAnalyze(ctx, args)
	case "area_pie_chart":
		return s.handleAreaPieChart(ctx, args)
	case "area_mask_overlay":
		return s.handleAreaMaskOverlay(ctx, args)
	case "area_csv":
		return s.handleAreaCSV(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information ===

type imageDimensionsArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Area Analysis ===

// areaArgs are shared by every area tool.
type areaArgs struct {
	AnnotationPath string   `json:"annotation_path"`
	ImagePath      string   `json:"image_path"`
	Labels         []string `json:"labels,omitempty"`
}

func (s *Server) analyze(ctx context.Context, a areaArgs) (*analysis.Result, image.Image, error) {
	if a.AnnotationPath == "" || a.ImagePath == "" {
		return nil, nil, fmt.Errorf("annotation_path and image_path are required")
	}
	an := s.analyzer
	if len(a.Labels) > 0 {
		an = analysis.New(a.Labels, s.analyzer.Budget)
	}
	return an.AnalyzeFiles(ctx, s.cache, a.AnnotationPath, a.ImagePath)
}

func (s *Server) handleAreaAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a areaArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, _, err := s.analyze(ctx, a)
	return res, err
}

type areaPieChartArgs struct {
	areaArgs
	Title string `json:"title,omitempty"`
}

// PieChartResult carries a rendered pie chart.
type PieChartResult struct {
	Percentages area.Percentages `json:"percentages"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

func (s *Server) handleAreaPieChart(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a areaPieChartArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, _, err := s.analyze(ctx, a.areaArgs)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.ChartOptions()
	if a.Title != "" {
		opts.Title = a.Title
	}
	var buf bytes.Buffer
	if err := report.RenderPieChart(&buf, res.Percentages, opts); err != nil {
		return nil, err
	}

	return &PieChartResult{
		Percentages: res.Percentages,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

type areaMaskOverlayArgs struct {
	areaArgs
	Opacity *float64 `json:"opacity,omitempty"`
	Outline *bool    `json:"outline,omitempty"`
	MaxSize *int     `json:"max_size,omitempty"`
}

func (s *Server) handleAreaMaskOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a areaMaskOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := s.cfg.OverlayOptions()
	if a.Opacity != nil {
		if !(*a.Opacity >= 0 && *a.Opacity <= 1) {
			return nil, fmt.Errorf("opacity must be within 0..1, got %v", *a.Opacity)
		}
		opts.Opacity = *a.Opacity
	}
	if a.Outline != nil {
		opts.Outline = *a.Outline
	}
	if a.MaxSize != nil {
		opts.MaxSize = *a.MaxSize
	}

	res, img, err := s.analyze(ctx, a.areaArgs)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeOverlay(img, res.Masks, opts)
}

// CSVResult carries both report tables as CSV text.
type CSVResult struct {
	AreasCSV       string `json:"areas_csv"`
	PercentagesCSV string `json:"percentages_csv"`
}

func (s *Server) handleAreaCSV(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a areaArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, _, err := s.analyze(ctx, a)
	if err != nil {
		return nil, err
	}

	var areas, pct bytes.Buffer
	if err := report.WriteAreasCSV(&areas, res.Areas); err != nil {
		return nil, err
	}
	if err := report.WritePercentagesCSV(&pct, res.Percentages); err != nil {
		return nil, err
	}
	return &CSVResult{AreasCSV: areas.String(), PercentagesCSV: pct.String()}, nil
}
