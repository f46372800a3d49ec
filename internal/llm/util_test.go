package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain array",
			input:    `["a", "b"]`,
			expected: `["a", "b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_SurroundingText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before object",
			input:    "Here is the extracted section:\n{\"name\": \"Jane\"}",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "trailing commentary",
			input:    "{\"work\": []}\n\nLet me know if you need anything else!",
			expected: `{"work": []}`,
		},
		{
			name:     "braces inside strings",
			input:    `Result: {"summary": "Built {fast} APIs"} done`,
			expected: `{"summary": "Built {fast} APIs"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Result: {\"message\": \"He said \\\"hi\\\"\"}",
			expected: `{"message": "He said \"hi\""}`,
		},
		{
			name:     "no JSON at all",
			input:    "I could not find anything",
			expected: "I could not find anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_ThinkingBlocks(t *testing.T) {
	input := "<think>\nThe user wants {json}.\n</think>\n```json\n{\"skills\": [\"Go\"]}\n```"
	assert.Equal(t, `{"skills": ["Go"]}`, CleanJSONBlock(input))
}

func TestStripThinking(t *testing.T) {
	assert.Equal(t, "answer", StripThinking("<think>a</think>answer"))
	assert.Equal(t, "answer", StripThinking("<think>one</think> answer <think>unterminated"))
	assert.Equal(t, "plain", StripThinking("  plain  "))
}
