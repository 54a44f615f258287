package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mazznoer/colorgrad"
	"github.com/urfave/cli/v3"

	"github.com/chprism/mcp-client/internal/agent"
	"github.com/chprism/mcp-client/internal/config"
	"github.com/chprism/mcp-client/internal/core"
	"github.com/chprism/mcp-client/internal/host"
	"github.com/chprism/mcp-client/internal/llm"
	"github.com/chprism/mcp-client/internal/shell"
)

const version = "0.3"

func main() {
	fmt.Print(getBanner())

	cmd := &cli.Command{
		Name:      "mcp-client",
		Usage:     "chat with a model that can call tools from an MCP server",
		ArgsUsage: "<tool host script or command>",
		Version:   version,
		Flags:     config.GetFlags(),
		Action:    run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func getBanner() string {
	banner := `
 _ __ ___    ___  _ __         ___  | | (_)  ___  _ __  | |_
| '_ ' _ \  / __|| '_ \ _____ / __| | | | | / _ \| '_ \ | __|
| | | | | || (__ | |_) |_____| (__  | | | ||  __/| | | || |_
|_| |_| |_| \___|| .__/       \___| |_| |_| \___||_| |_| \__|
                 |_|    tools for models  [v` + version + `]
`
	grad, _ := colorgrad.NewGradient().
		HtmlColors("#0bab64", "#3bb78f").
		Build()

	lines := strings.Split(banner, "\n")

	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	colors := grad.Colors(uint(maxLen))
	var colored strings.Builder
	for _, line := range lines {
		for i, ch := range line {
			r, g, b, _ := colors[i].RGBA255()
			colored.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm%c", r, g, b, ch))
		}
		colored.WriteString("\x1b[0m\n")
	}
	return colored.String()
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.New(cmd)
	core.InitLogger(cfg.Verbose)

	if cfg.Host.Command == "" {
		return errors.New("usage: mcp-client [flags] <tool host script or command>")
	}

	// Extra environment entries go in before any client reads the env.
	for _, entry := range cfg.Host.Env {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid --env entry %q, want KEY=VALUE", entry)
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		cfg.PrintConfig()
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return err
	}

	toolHost, err := host.Connect(ctx, cfg.Host.Command)
	if err != nil {
		return err
	}
	defer toolHost.Close()

	tools, err := toolHost.ListTools(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	fmt.Printf("connected to tool host, available tools: %s\n", strings.Join(names, ", "))
	slog.Info("session ready", "provider", provider.Name(), "model", cfg.Model.Model, "tools", len(tools))

	ag := agent.New(provider, toolHost, cfg.Model.MaxTurns)
	return shell.New(ag, os.Stdin, os.Stdout).Run(ctx)
}
