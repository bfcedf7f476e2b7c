package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with llmfiles",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "grammar",
		Title:   "File Block Grammar",
		Summary: "How file blocks are marked in model output (fenced and XML)",
		Content: topicGrammar,
	},
	{
		Name:    "streaming",
		Title:   "Streaming Model",
		Summary: "Chunks, events, input formats, and truncated blocks",
		Content: topicStreaming,
	},
	{
		Name:    "json",
		Title:   "JSON Blocks",
		Summary: "Pulling a typed JSON value out of a completion",
		Content: topicJSON,
	},
	{
		Name:    "output",
		Title:   "Output Directory",
		Summary: "Where files are written and what manifest.json records",
		Content: topicOutput,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    llmfiles init

   This creates .llmfiles/config.yaml, .llmfiles/prompt.md and
   .llmfiles/.gitignore.

2. Add the contents of .llmfiles/prompt.md to your system prompt so the
   model marks every file it produces.

3. Pipe a completion through llmfiles as it streams:

    my-llm-client --stream | llmfiles stream

   or let llmfiles run the producer itself:

    llmfiles stream --exec 'claude -p "build a todo app" --output-format stream-json --verbose' --format stream-json

4. Check what the last run wrote:

    llmfiles status

CLI Commands
------------

  llmfiles extract [file]          Extract file blocks from a complete document
  llmfiles extract --write         ... and write them to the output directory
  llmfiles stream [file]           Extract file blocks while text streams in
  llmfiles stream --exec CMD       Read the stdout of CMD instead of stdin
  llmfiles stream --raw            Mirror model output verbatim
  llmfiles stream --dry-run        Parse and report, write nothing
  llmfiles json [file]             Print the first JSON block, re-indented
  llmfiles prompt                  Print formatting instructions for the model
  llmfiles status                  Show the manifest of the last run
  llmfiles init                    Scaffold .llmfiles/ directory
  llmfiles docs                    List documentation topics
  llmfiles docs <topic>            Show a documentation topic

Flags shared by extract and stream: --prefix, --xml, --output-dir,
--overwrite. Run any command with --help for the full list.
`

const topicConfig = `Configuration Reference
=======================

Settings live in .llmfiles/config.yaml, found by walking up from the
current directory. Without a config file every default applies. Command
line flags override file values.

Fields
------

  path-prefix   string    Literal that introduces a file path.
                          Default: "File path:"
  xml-element   string    When set, file content is wrapped in
                          <element>...</element> instead of a fenced
                          code block. Letters, digits, '_', '-', '.'.
  format        string    Input format for stream: "raw" (default),
                          "stream-json" (claude -p --output-format
                          stream-json), or "sse" (OpenAI-style data: lines).
  chunk-size    int       Bytes per read in raw format. Default: 64.
  output-dir    string    Where files are written. Default: .llmfiles/out.
                          $RUN_ID and environment variables are expanded.
  include       list      Doublestar patterns; when set, only matching
                          paths are written.
  exclude       list      Doublestar patterns; matching paths are skipped.
  overwrite     bool      Replace existing files. Default: false.
  render        string    "plain" (default) or "markdown" for narrative
                          text between file blocks.
  log-level     string    trace, debug, info, warn, error. Default: info.
                          LLMFILES_LOG_LEVEL overrides it.

Validation Rules
----------------

- path-prefix must not be blank.
- xml-element must be a plain element name.
- format, render and log-level must be one of the listed values.
- chunk-size must be positive.
- include and exclude entries must be valid patterns.

Example Config
--------------

  path-prefix: "File path:"
  format: stream-json
  output-dir: .llmfiles/out/$RUN_ID
  exclude:
    - "**/*.lock"
  render: markdown
`

const topicGrammar = `File Block Grammar
==================

A file block is a path line followed by the file content between an
opening and a closing marker. Everything else is narrative text.

Fenced (default)
----------------

  File path: src/main.go
  ` + "```" + `go
  package main
  ` + "```" + `

- The path is the first run of letters, digits, '_', '.', '/', '-'
  after the prefix on the same line.
- The opening fence may carry a language tag.
- Whitespace around the content is trimmed.
- A first content line that is a single word (a language name left
  on its own line) is dropped.

XML (xml-element set, e.g. "code")
----------------------------------

  File path: src/main.go
  <code>
  package main
  </code>

- One newline after the opening tag and after the closing tag is
  consumed with the marker.

Batch extraction (extract) also accepts a path line with a blank line
between it and the fence. In XML mode the path is taken from the last
non-blank line before each opening tag.
`

const topicStreaming = `Streaming Model
===============

stream feeds the completion to a parser one chunk at a time. Chunk
boundaries never change the result: a marker split across chunks is
only resolved once all of it has arrived.

Events
------

  text              every chunk, verbatim (shown with --raw)
  text-block        narrative text between file blocks
  start-file-block  a path and its opening marker were seen
  end-file-block    the closing marker was seen; the file is written

Input Formats
-------------

  raw          plain text, read chunk-size bytes at a time; a multi-byte
               character split by a read is held back until complete
  stream-json  one JSON event per line; each text_delta is one chunk.
               Tool calls and permission denials are reported.
  sse          "data: {...}" lines from a chat completions stream;
               "data: [DONE]" ends the stream

Truncation
----------

When the input ends inside a file block that file is not written. Its
partial content is shown as narrative text and the run is marked
truncated in the manifest.
`

const topicJSON = `JSON Blocks
===========

llmfiles json reads a completion and prints the first fenced code block
whose opening fence is ` + "```" + ` or ` + "```" + `json, parsed and re-indented.

- Only the first block is considered, even when it is not valid JSON.
- Both fences must start a line.
- Exit status is 1 when there is no block or the block does not parse.

The Go package internal/jsonblock offers the same as Extract[T] for
typed results and Decode for callers that want an error.
`

const topicOutput = `Output Directory
================

Files are written under output-dir (default .llmfiles/out). Each file is
written atomically and ends with a newline.

Paths must be relative and stay inside the output directory; absolute
paths and '..' escapes fail the run. Paths filtered out by include or
exclude are recorded as skipped.

manifest.json
-------------

  run_id          unique ID of the run ($RUN_ID in output-dir)
  dir             output directory
  status          running, completed, truncated, or failed
  started_at      start time (UTC)
  finished_at     end time (UTC)
  truncated_path  file that was open when input ended
  error           failure message
  entries         path, bytes, lines, and skipped reason per file

The manifest is rewritten at the start and end of every stream run.
llmfiles status reads it.

Producer Environment
--------------------

Commands started with --exec see LLMFILES_RUN_ID and LLMFILES_OUTPUT_DIR.
`
