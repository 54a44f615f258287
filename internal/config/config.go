// Package config defines the client configuration and its CLI flags.
// Every flag resolves through a value-source chain: environment variable,
// then the optional YAML config file, then the built-in default.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Provider string
	Verbose  bool
	Host     *HostConfig
	Model    *ModelConfig
	API      *APIConfig
}

type HostConfig struct {
	Command string
	Env     []string
}

type ModelConfig struct {
	Model     string
	MaxTokens int
	MaxTurns  int
}

type APIConfig struct {
	Timeout      time.Duration
	AnthropicKey string
	OpenAIKey    string
	OpenAIURL    string
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

func GetFlags() []cli.Flag {
	// Pre-parse config path so the file can back every other flag
	configPath := getConfigPath()
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			_ = yaml.Unmarshal(data, &configData)
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to read config file %s: %v\n", configPath, err)
		}
	}

	// EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("MCPCLIENT_CONFIG")},

		// Provider selection
		&cli.StringFlag{Name: "provider", Aliases: []string{"P"}, Value: "anthropic", Usage: "model provider: anthropic or openai", Sources: src("provider", "MCPCLIENT_PROVIDER")},
		&cli.StringFlag{Name: "model", Usage: "model identifier (defaults per provider, see ANTHROPIC_MODEL / OPENAI_MODEL)", Sources: src("model", "MCPCLIENT_MODEL")},

		// Generation and loop limits
		&cli.IntFlag{Name: "maxtokens", Value: 1000, Usage: "maximum number of tokens to generate per turn", Sources: src("maxtokens", "MCPCLIENT_MAXTOKENS")},
		&cli.IntFlag{Name: "maxturns", Value: 16, Usage: "maximum model turns per query before the tool loop aborts", Sources: src("maxturns", "MCPCLIENT_MAXTURNS")},
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 5, Usage: "timeout for each completion request", Sources: src("apitimeout", "MCPCLIENT_APITIMEOUT")},

		// API configuration
		&cli.StringFlag{Name: "anthropickey", Usage: "Anthropic API key (the SDK also reads ANTHROPIC_API_KEY)", Sources: src("anthropickey", "MCPCLIENT_ANTHROPICKEY")},
		&cli.StringFlag{Name: "openaikey", Usage: "OpenAI API key (OPENAI_API_KEY is also honored)", Sources: src("openaikey", "MCPCLIENT_OPENAIKEY")},
		&cli.StringFlag{Name: "openaiurl", Usage: "OpenAI API URL (for custom endpoints)", Sources: src("openaiurl", "MCPCLIENT_OPENAIURL")},

		// Tool host environment
		&cli.StringSliceFlag{Name: "env", Aliases: []string{"e"}, Usage: "extra KEY=VALUE environment entries set before startup (repeatable)", Sources: src("env", "MCPCLIENT_ENV")},

		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging", Sources: src("verbose", "MCPCLIENT_VERBOSE")},
	}
}

func getConfigPath() string {
	if v := os.Getenv("MCPCLIENT_CONFIG"); v != "" {
		return v
	}
	for i, arg := range os.Args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(os.Args) {
				return os.Args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// New builds a Configuration from parsed flags. The first positional
// argument is the tool host command.
func New(cmd *cli.Command) *Configuration {
	cfg := &Configuration{
		Provider: cmd.String("provider"),
		Verbose:  cmd.Bool("verbose"),
		Host: &HostConfig{
			Command: strings.TrimSpace(cmd.Args().First()),
			Env:     cmd.StringSlice("env"),
		},
		Model: &ModelConfig{
			Model:     cmd.String("model"),
			MaxTokens: int(cmd.Int("maxtokens")),
			MaxTurns:  int(cmd.Int("maxturns")),
		},
		API: &APIConfig{
			Timeout:      cmd.Duration("apitimeout"),
			AnthropicKey: cmd.String("anthropickey"),
			OpenAIKey:    cmd.String("openaikey"),
			OpenAIURL:    cmd.String("openaiurl"),
		},
	}
	if cfg.Model.Model == "" {
		cfg.Model.Model = DefaultModel(cfg.Provider)
	}
	return cfg
}

// DefaultModel resolves the model identifier for a provider from its
// environment variable, falling back to a current default.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if v := os.Getenv("OPENAI_MODEL"); v != "" {
			return v
		}
		return "gpt-4o"
	default:
		if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
			return v
		}
		return "claude-sonnet-4-20250514"
	}
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("provider: %s\n", c.Provider)
	fmt.Printf("model: %s\n", c.Model.Model)
	fmt.Printf("maxtokens: %d\n", c.Model.MaxTokens)
	fmt.Printf("maxturns: %d\n", c.Model.MaxTurns)
	fmt.Printf("apitimeout: %s\n", c.API.Timeout)
	fmt.Printf("host: %s\n", c.Host.Command)
	fmt.Printf("anthropickey: %s\n", maskKey(c.API.AnthropicKey))
	fmt.Printf("openaikey: %s\n", maskKey(c.API.OpenAIKey))
	if c.API.OpenAIURL != "" {
		fmt.Printf("openaiurl: %s\n", c.API.OpenAIURL)
	}
}

func maskKey(key string) string {
	if len(key) > 3 {
		return strings.Repeat("*", len(key)-3) + key[len(key)-3:]
	}
	return key
}
