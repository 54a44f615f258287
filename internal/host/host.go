// Package host connects to an MCP tool host spawned as a child process and
// exposes its tools to the rest of the client: a descriptor listing for the
// provider adapters and a call operation for the orchestrator.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrNotConnected is returned when an operation runs before Connect or
// after Close.
var ErrNotConnected = errors.New("host: not connected")

// InvocationError wraps any failure to execute a tool: transport errors,
// host-reported errors, and timeouts all surface through it.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string { return fmt.Sprintf("tool %s: %v", e.Tool, e.Err) }
func (e *InvocationError) Unwrap() error { return e.Err }

// Descriptor is a tool definition as the host reports it. The schema is
// passed through to the providers without structural validation.
type Descriptor struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

// Host is a live session with one MCP server over stdio.
type Host struct {
	session *mcp.ClientSession
}

// Connect spawns the tool host process and performs the MCP handshake.
// The returned Host must be closed when the session ends.
func Connect(ctx context.Context, serverPath string) (*Host, error) {
	cmd, err := serverCommand(serverPath)
	if err != nil {
		return nil, err
	}
	cmd.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "mcp-client",
		Version: "0.3",
	}, nil)

	slog.Info("connecting to tool host", "command", serverPath)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("host: connect %s: %w", serverPath, err)
	}
	return &Host{session: session}, nil
}

// serverCommand builds the child process command. Python and JavaScript
// servers run under their interpreters; anything else executes directly
// and may carry its own arguments.
func serverCommand(serverPath string) (*exec.Cmd, error) {
	parts := strings.Fields(strings.TrimSpace(serverPath))
	if len(parts) == 0 {
		return nil, errors.New("host: empty server command")
	}
	if len(parts) == 1 {
		switch filepath.Ext(parts[0]) {
		case ".py":
			return exec.Command("python3", parts[0]), nil
		case ".js":
			return exec.Command("node", parts[0]), nil
		}
	}
	return exec.Command(parts[0], parts[1:]...), nil
}

// ListTools fetches the host's tool descriptors. Sourced once per query by
// the orchestrator.
func (h *Host) ListTools(ctx context.Context) ([]Descriptor, error) {
	if h == nil || h.session == nil {
		return nil, ErrNotConnected
	}
	var out []Descriptor
	for tool, err := range h.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("host: list tools: %w", err)
		}
		if tool == nil {
			continue
		}
		out = append(out, Descriptor{
			Name:        tool.Name,
			Description: tool.Description,
			Schema:      toSchema(tool.InputSchema),
		})
	}
	return out, nil
}

// toSchema normalizes whatever form the SDK hands back for an input schema
// by round-tripping it through JSON.
func toSchema(v any) *jsonschema.Schema {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// CallTool executes a tool on the host and returns its content flattened
// to text. Every failure path wraps into an InvocationError.
func (h *Host) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if h == nil || h.session == nil {
		return "", &InvocationError{Tool: name, Err: ErrNotConnected}
	}
	slog.Debug("calling tool", "tool", name, "args", args)
	result, err := h.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", &InvocationError{Tool: name, Err: err}
	}
	content := flattenContent(result.Content)
	if result.IsError {
		if content == "" {
			content = "tool returned an error without content"
		}
		return "", &InvocationError{Tool: name, Err: errors.New(content)}
	}
	return content, nil
}

// flattenContent joins a result's content blocks: text blocks verbatim,
// anything else as JSON.
func flattenContent(blocks []mcp.Content) string {
	var b strings.Builder
	for _, block := range blocks {
		if text, ok := block.(*mcp.TextContent); ok {
			b.WriteString(text.Text)
			continue
		}
		if raw, err := json.Marshal(block); err == nil {
			b.Write(raw)
		}
	}
	return b.String()
}

// Close shuts down the session and the spawned process.
func (h *Host) Close() error {
	if h == nil || h.session == nil {
		return nil
	}
	err := h.session.Close()
	h.session = nil
	return err
}
