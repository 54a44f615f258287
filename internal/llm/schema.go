package llm

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/jsonschema-go/jsonschema"
	ai "github.com/sashabaranov/go-openai"
	aischema "github.com/sashabaranov/go-openai/jsonschema"

	"github.com/chprism/mcp-client/internal/host"
)

// AnthropicTool adapts a host descriptor to Anthropic's flat tool shape
// {name, description, input_schema}. The schema's internals are converted
// structurally but not validated.
func AnthropicTool(d host.Descriptor) anthropic.ToolUnionParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type:       "object",
		Properties: map[string]any{},
	}
	if d.Schema != nil {
		props := make(map[string]any)
		for name, prop := range d.Schema.Properties {
			if prop != nil {
				props[name] = anthropicSchemaMap(prop)
			}
		}
		inputSchema.Properties = props
		if len(d.Schema.Required) > 0 {
			inputSchema.Required = d.Schema.Required
		}
	}

	tool := anthropic.ToolParam{
		Name:        d.Name,
		Description: anthropic.String(d.Description),
		InputSchema: inputSchema,
	}
	return anthropic.ToolUnionParam{OfTool: &tool}
}

// anthropicSchemaMap recursively converts a schema node to the map form
// Anthropic's input_schema expects.
func anthropicSchemaMap(schema *jsonschema.Schema) map[string]any {
	if schema == nil {
		return nil
	}

	node := make(map[string]any)
	if schema.Type != "" {
		node["type"] = schema.Type
	} else {
		node["type"] = "string"
	}
	if schema.Description != "" {
		node["description"] = schema.Description
	}

	switch schema.Type {
	case "array":
		// JSON Schema 2020-12 requires items on arrays
		if schema.Items != nil {
			node["items"] = anthropicSchemaMap(schema.Items)
		} else {
			node["items"] = map[string]any{"type": "string"}
		}
	case "object":
		props := make(map[string]any)
		for name, prop := range schema.Properties {
			if prop != nil {
				props[name] = anthropicSchemaMap(prop)
			}
		}
		node["properties"] = props
		if len(schema.Required) > 0 {
			node["required"] = schema.Required
		}
	}

	if len(schema.Enum) > 0 {
		node["enum"] = schema.Enum
	}
	return node
}

// OpenAITool adapts a host descriptor to OpenAI's wrapped-function shape
// {type: "function", function: {name, description, parameters}}.
func OpenAITool(d host.Descriptor) ai.Tool {
	props := make(map[string]aischema.Definition)
	var required []string
	if d.Schema != nil {
		for name, prop := range d.Schema.Properties {
			if prop != nil {
				props[name] = openaiDefinition(prop)
			}
		}
		required = d.Schema.Required
	}

	return ai.Tool{
		Type: ai.ToolTypeFunction,
		Function: &ai.FunctionDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters: aischema.Definition{
				Type:       aischema.Object,
				Properties: props,
				Required:   required,
			},
		},
	}
}

// openaiDefinition recursively converts a schema node to an OpenAI
// function-parameter definition.
func openaiDefinition(schema *jsonschema.Schema) aischema.Definition {
	if schema == nil {
		return aischema.Definition{}
	}

	def := aischema.Definition{
		Type:        aischema.DataType(schema.Type),
		Description: schema.Description,
	}

	switch schema.Type {
	case "array":
		if schema.Items != nil {
			items := openaiDefinition(schema.Items)
			def.Items = &items
		}
	case "object":
		if schema.Properties != nil {
			props := make(map[string]aischema.Definition)
			for name, prop := range schema.Properties {
				if prop != nil {
					props[name] = openaiDefinition(prop)
				}
			}
			def.Properties = props
		}
		if len(schema.Required) > 0 {
			def.Required = schema.Required
		}
	}

	if len(schema.Enum) > 0 {
		enums := make([]string, 0, len(schema.Enum))
		for _, e := range schema.Enum {
			if s, ok := e.(string); ok {
				enums = append(enums, s)
			}
		}
		if len(enums) > 0 {
			def.Enum = enums
		}
	}
	return def
}
