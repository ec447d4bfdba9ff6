package mdx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeBlock(t *testing.T) {
	cases := []struct {
		name string
		body string
		lang string
		want string
	}{
		{"function with return", "function addItem(item) {\n  return cart.push(item);\n}", "js", "Function 'addItem' with 1 parameter that returns a value"},
		{"function without params", "function init() {\n  setup();\n}", "js", "Function 'init'"},
		{"async arrow", "const fetchUser = async (id, opts) => {\n  await get(id)\n}", "ts", "Function 'fetchUser' with 2 parameters"},
		{"python def", "def greet(name):\n    return 'hi ' + name", "python", "Function 'greet' with 1 parameter that returns a value"},
		{"go method skips receiver", "func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {\n}", "go", "Function 'Handle' with 2 parameters"},
		{"short names are not functions", "function go() {}", "js", "js snippet (1 line)"},
		{"interface", "interface User {\n  id: string\n}", "ts", "Type definition 'User'"},
		{"type alias", "type Mode = 'doc' | 'presentation'", "ts", "Type definition 'Mode'"},
		{"class wins over config brace", "{\n  handler: class Handler {}\n}", "js", "Class 'Handler'"},
		{"imports", "import React from 'react';\nconst x = require('x');", "js", "Import statements for dependencies"},
		{"config brace", "{\n  \"port\": 8080\n}", "json", "Configuration object with properties"},
		{"config keyword", "module.exports.options = { strict: true }", "js", "Configuration object with properties"},
		{"npm commands", "npm install\nnpm run build", "", "Shell commands (2 lines)"},
		{"shell lang skips comments", "# install deps\n\nmake build", "bash", "Shell command (1 line)"},
		{"dollar prompt", "$ make\n$ make test\n$ make install", "text", "Shell commands (3 lines)"},
		{"fallback with lang", "print('hi')\n\nprint('bye')", "python", "python snippet (2 lines)"},
		{"fallback without lang", "x = 1", "", "Code snippet (1 line)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SummarizeBlock(tc.body, tc.lang))
		})
	}
}

func TestClassifyBlock(t *testing.T) {
	filler := strings.Repeat("x", 120)
	cases := []struct {
		name      string
		preceding string
		following string
		want      Category
	}{
		{"bold negative", "**Ineffective:** do not do this\n\n", "", CategoryIneffective},
		{"bold negative after block", "Look:\n", "\n**Wrong:** this leaks handles", CategoryIneffective},
		{"bold positive", "**Better:**\n\n", "", CategoryEffective},
		{"bold label beats glyph", "**Correct:** ❌ legacy version shown above", "", CategoryEffective},
		{"cross glyph", "❌ Avoid this:\n\n", "", CategoryIneffective},
		{"check glyph", "✅ Prefer this:\n\n", "", CategoryEffective},
		{"near check beats far cross", "❌ old approach\n" + filler + "\n✅ new approach:\n", "", CategoryEffective},
		{"pattern word", "Here is the basic structure:\n\n", "", CategoryPattern},
		{"example word nearby", "For example:\n\n", "", CategoryPattern},
		{"example word too far", "For example, consider\n" + filler + filler, "", CategoryExample},
		{"no signal", "Run it:\n", "\nThat is all.", CategoryExample},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyBlock(tc.preceding, tc.following))
		})
	}
}

func TestDescribeBlock(t *testing.T) {
	block := "```js\nfunction addItem(item) {\n  return cart.push(item);\n}\n```"
	assert.Equal(t,
		"[CODE EXAMPLE: Function 'addItem' with 1 parameter that returns a value]",
		DescribeBlock(block, "", ""))

	assert.Equal(t,
		"[EFFECTIVE CODE EXAMPLE: Function 'addItem' with 1 parameter that returns a value]",
		DescribeBlock(block, "**Correct:** ❌ legacy version shown above\n", ""))
}

func TestDescribeBlockEmptyBody(t *testing.T) {
	for _, block := range []string{"```js\n\n```", "```\n```", "```bash\n   \n\t\n```"} {
		assert.Equal(t, "[Code example]", DescribeBlock(block, "**Wrong:** ❌ pattern", "✅ for example"))
	}
}
