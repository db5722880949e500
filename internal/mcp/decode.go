package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode unmarshals MCP request arguments into a typed struct.
// Unknown arguments are rejected so typos surface as INVALID_REQUEST.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("invalid arguments: %w", err)
	}
	return result, nil
}
