package scaffold

import (
	"strings"

	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
)

// Instructions returns system prompt text that asks a model to emit files
// in the form g recognizes.
func Instructions(g *fileblocks.Grammar) string {
	var b strings.Builder
	b.WriteString(instructionsIntro)
	if g.Mode() == fileblocks.ModeXML {
		openTag, closeTag := "<"+g.Element()+">", "</"+g.Element()+">"
		b.WriteString(g.Prefix() + " src/example.txt\n" + openTag + "\nfile content\n" + closeTag + "\n")
		b.WriteString(strings.ReplaceAll(instructionsXMLRules, "$CLOSE", closeTag))
	} else {
		b.WriteString(g.Prefix() + " src/example.go\n```go\npackage example\n```\n")
		b.WriteString(instructionsFencedRules)
	}
	b.WriteString(strings.ReplaceAll(instructionsCommonRules, "$PREFIX", g.Prefix()))
	return b.String()
}

const instructionsIntro = `## Writing files

Whenever you create or change a file, write its complete content as a file
block. A file block is one path line followed directly by the content:

`

const instructionsFencedRules = `
- The path line comes immediately before the opening fence.
- Never put a line starting with three backticks inside the file content;
  it ends the block early.
`

const instructionsXMLRules = `
- The path line comes immediately before the opening tag.
- Never write $CLOSE inside the file content; it ends the block early.
`

const instructionsCommonRules = `- Use paths relative to the project root, made of letters, digits, '_',
  '.', '/' and '-'. No absolute paths, no '..'.
- Write every file in full. Partial files and diffs are not applied.
- Text outside file blocks is shown to the user as is. Only use
  "$PREFIX" to introduce a file block.
`
