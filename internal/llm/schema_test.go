package llm

import (
	"reflect"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	ai "github.com/sashabaranov/go-openai"
	aischema "github.com/sashabaranov/go-openai/jsonschema"

	"github.com/chprism/mcp-client/internal/host"
)

func weatherDescriptor() host.Descriptor {
	return host.Descriptor{
		Name:        "get_weather",
		Description: "look up the weather",
		Schema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"city": {Type: "string", Description: "city name"},
				"days": {Type: "array", Items: &jsonschema.Schema{Type: "number"}},
				"unit": {Type: "string", Enum: []any{"c", "f"}},
			},
			Required: []string{"city"},
		},
	}
}

func TestOpenAIToolShape(t *testing.T) {
	tool := OpenAITool(weatherDescriptor())

	if tool.Type != ai.ToolTypeFunction {
		t.Errorf("Type = %v, want %v", tool.Type, ai.ToolTypeFunction)
	}
	if tool.Function.Name != "get_weather" {
		t.Errorf("Name = %q", tool.Function.Name)
	}
	if tool.Function.Description != "look up the weather" {
		t.Errorf("Description = %q", tool.Function.Description)
	}

	params, ok := tool.Function.Parameters.(aischema.Definition)
	if !ok {
		t.Fatalf("Parameters is %T, want aischema.Definition", tool.Function.Parameters)
	}
	if params.Type != aischema.Object {
		t.Errorf("params.Type = %v", params.Type)
	}
	if !reflect.DeepEqual(params.Required, []string{"city"}) {
		t.Errorf("Required = %v", params.Required)
	}

	days, ok := params.Properties["days"]
	if !ok {
		t.Fatal("days property missing")
	}
	if days.Items == nil || days.Items.Type != aischema.Number {
		t.Errorf("days.Items = %+v, want number items", days.Items)
	}

	unit := params.Properties["unit"]
	if !reflect.DeepEqual(unit.Enum, []string{"c", "f"}) {
		t.Errorf("unit.Enum = %v", unit.Enum)
	}
}

func TestAnthropicToolShape(t *testing.T) {
	tool := AnthropicTool(weatherDescriptor())

	if tool.OfTool == nil {
		t.Fatal("OfTool is nil")
	}
	if tool.OfTool.Name != "get_weather" {
		t.Errorf("Name = %q", tool.OfTool.Name)
	}
	if !reflect.DeepEqual(tool.OfTool.InputSchema.Required, []string{"city"}) {
		t.Errorf("Required = %v", tool.OfTool.InputSchema.Required)
	}

	props, ok := tool.OfTool.InputSchema.Properties.(map[string]any)
	if !ok {
		t.Fatalf("Properties is %T, want map[string]any", tool.OfTool.InputSchema.Properties)
	}

	city, ok := props["city"].(map[string]any)
	if !ok {
		t.Fatal("city property missing")
	}
	if city["type"] != "string" || city["description"] != "city name" {
		t.Errorf("city = %v", city)
	}

	days, ok := props["days"].(map[string]any)
	if !ok {
		t.Fatal("days property missing")
	}
	items, ok := days["items"].(map[string]any)
	if !ok || items["type"] != "number" {
		t.Errorf("days.items = %v", days["items"])
	}
}

// Adapting the same descriptor twice for the same provider must yield
// identical output.
func TestAdaptIdempotent(t *testing.T) {
	d := weatherDescriptor()

	if !reflect.DeepEqual(AnthropicTool(d), AnthropicTool(d)) {
		t.Error("AnthropicTool is not idempotent")
	}
	if !reflect.DeepEqual(OpenAITool(d), OpenAITool(d)) {
		t.Error("OpenAITool is not idempotent")
	}
}

func TestAdaptNilSchema(t *testing.T) {
	d := host.Descriptor{Name: "noargs", Description: "takes nothing"}

	atool := AnthropicTool(d)
	if atool.OfTool.Name != "noargs" {
		t.Errorf("Name = %q", atool.OfTool.Name)
	}
	if atool.OfTool.InputSchema.Required != nil {
		t.Errorf("Required = %v, want nil", atool.OfTool.InputSchema.Required)
	}

	otool := OpenAITool(d)
	params := otool.Function.Parameters.(aischema.Definition)
	if len(params.Properties) != 0 {
		t.Errorf("Properties = %v, want empty", params.Properties)
	}
}

// Arrays without item schemas still get one: the providers reject bare
// array types.
func TestAnthropicArrayItemsDefault(t *testing.T) {
	d := host.Descriptor{
		Name: "list_tool",
		Schema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"names": {Type: "array"},
			},
		},
	}
	tool := AnthropicTool(d)
	props := tool.OfTool.InputSchema.Properties.(map[string]any)
	names := props["names"].(map[string]any)
	items, ok := names["items"].(map[string]any)
	if !ok || items["type"] != "string" {
		t.Errorf("items = %v, want default string items", names["items"])
	}
}
