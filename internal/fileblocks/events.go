package fileblocks

// EventType identifies a streaming event.
type EventType int

const (
	EventTypeText EventType = iota
	EventTypeTextBlock
	EventTypeStartFileBlock
	EventTypeEndFileBlock
)

func (t EventType) String() string {
	switch t {
	case EventTypeText:
		return "text"
	case EventTypeTextBlock:
		return "text-block"
	case EventTypeStartFileBlock:
		return "start-file-block"
	case EventTypeEndFileBlock:
		return "end-file-block"
	}
	return "unknown"
}

// Event is the interface for all streaming parser events.
type Event interface {
	Type() EventType
}

// TextChannel tells apart the two kinds of TextEvent. Consumers that mirror
// raw model output should only read ChannelRaw; consumers that rebuild files
// should ignore TextEvent entirely and use the file block events.
type TextChannel int

const (
	// ChannelRaw carries every input chunk verbatim, exactly once.
	ChannelRaw TextChannel = iota
	// ChannelRemainder carries the buffered text following a resolved
	// marker, up to the next marker if one is already buffered. It repeats
	// text already sent on ChannelRaw.
	ChannelRemainder
)

func (c TextChannel) String() string {
	if c == ChannelRemainder {
		return "remainder"
	}
	return "raw"
}

// TextEvent carries unstructured text.
type TextEvent struct {
	Content string
	Channel TextChannel
}

func (e TextEvent) Type() EventType {
	return EventTypeText
}

// TextBlockEvent is a resolved span of narrative text between file blocks.
type TextBlockEvent struct {
	Content string
}

func (e TextBlockEvent) Type() EventType {
	return EventTypeTextBlock
}

// StartFileBlockEvent is sent once a path line and its opening marker are seen.
type StartFileBlockEvent struct {
	Path string
}

func (e StartFileBlockEvent) Type() EventType {
	return EventTypeStartFileBlock
}

// EndFileBlockEvent is sent when a file block closes, with the complete file.
type EndFileBlockEvent struct {
	File FileContent
}

func (e EndFileBlockEvent) Type() EventType {
	return EventTypeEndFileBlock
}
