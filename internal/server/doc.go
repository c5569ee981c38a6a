// Package server implements the MCP (Model Context Protocol) server for the
// heart area tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the area analysis
// pipeline through the MCP protocol, so MCP clients can measure labeled
// regions of an annotated image without the HTTP front end.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake; the instructions list the configured labels
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_dimensions: Get width and height
//   - area_analyze: Per-label pixel areas and percentages
//   - area_pie_chart: Percentage pie chart as base64 PNG
//   - area_mask_overlay: Label masks tinted over the image as base64 PNG
//   - area_csv: Areas and percentages tables as CSV text
//
// Area tools take annotation_path and image_path, plus an optional labels
// array that replaces the configured label set for that call.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls. The cache persists
// for the lifetime of the server process. Annotations are re-read on every
// call since they are small and often edited between calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
