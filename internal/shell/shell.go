// Package shell is the interactive session loop around the orchestrator.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// QueryProcessor is what the shell needs from the orchestrator.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string) (string, error)
}

type Shell struct {
	agent QueryProcessor
	in    io.Reader
	out   io.Writer
}

func New(agent QueryProcessor, in io.Reader, out io.Writer) *Shell {
	return &Shell{agent: agent, in: in, out: out}
}

// Run reads queries line by line until EOF or "quit". A failed query is
// printed as a diagnostic and never ends the session.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "mcp client started. type a query, or 'quit' to exit.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "\nquery: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "quit") {
			break
		}

		reply, err := s.agent.ProcessQuery(ctx, query)
		if err != nil {
			slog.Error("query failed", "error", err)
			fmt.Fprintf(s.out, "\nerror: %v\n", err)
			continue
		}
		fmt.Fprintf(s.out, "\n%s\n", reply)
	}
	return scanner.Err()
}
