package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/llmfiles/internal/config"
	"github.com/jorge-barreto/llmfiles/internal/ux"
)

var configTemplate = `# llmfiles settings. Run 'llmfiles docs config' for every field.
path-prefix: "File path:"
# xml-element: code
format: raw
chunk-size: 64
output-dir: .llmfiles/out
exclude:
  - "**/.git/**"
overwrite: false
render: plain
log-level: info
`

var gitignoreTemplate = `out/
`

// Init creates a new .llmfiles/ directory with a config file, model
// instructions for the default grammar, and a .gitignore for output.
func Init(targetDir string, w io.Writer) error {
	dir := filepath.Join(targetDir, config.Dir)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.Dir, targetDir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", config.Dir, err)
	}

	g, err := config.Default().Grammar()
	if err != nil {
		return err
	}

	files := []struct {
		name, content string
	}{
		{"config.yaml", configTemplate},
		{"prompt.md", Instructions(g)},
		{".gitignore", gitignoreTemplate},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	fmt.Fprintf(w, "\n%s%s✓ Initialized %s/ directory%s\n\n", ux.Bold, ux.Green, config.Dir, ux.Reset)
	fmt.Fprintf(w, "  Created:\n")
	fmt.Fprintf(w, "    %s%s/config.yaml%s  settings\n", ux.Cyan, config.Dir, ux.Reset)
	fmt.Fprintf(w, "    %s%s/prompt.md%s    file block instructions for your system prompt\n", ux.Cyan, config.Dir, ux.Reset)
	fmt.Fprintf(w, "    %s%s/.gitignore%s   keeps out/ out of git\n\n", ux.Cyan, config.Dir, ux.Reset)
	fmt.Fprintf(w, "  Next steps:\n")
	fmt.Fprintf(w, "    1. Add %s%s/prompt.md%s to your system prompt\n", ux.Cyan, config.Dir, ux.Reset)
	fmt.Fprintf(w, "    2. Run %s<producer> | llmfiles stream%s\n\n", ux.Cyan, ux.Reset)

	return nil
}
