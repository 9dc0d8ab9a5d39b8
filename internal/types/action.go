package types

import "strings"

// ActionKind discriminates the Action variants
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionRaw
	ActionLocal
)

// String returns the kind name
func (k ActionKind) String() string {
	switch k {
	case ActionRaw:
		return "raw"
	case ActionLocal:
		return "local"
	default:
		return "none"
	}
}

// Action is a single shell-runnable catalog entry. Values are immutable once
// selected; only the fields of the matching Kind are meaningful.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Text is the verbatim shell line of a raw action.
	Text string `json:"text,omitempty"`

	// Program, Args and SourceFile describe a local executable.
	Program    string   `json:"program,omitempty"`
	Args       []string `json:"args,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
}

// RawShellLine creates an action that runs text verbatim
func RawShellLine(text string) Action {
	return Action{Kind: ActionRaw, Text: text}
}

// LocalExecutable creates an action that runs program from the directory of sourceFile
func LocalExecutable(program string, args []string, sourceFile string) Action {
	return Action{
		Kind:       ActionLocal,
		Program:    program,
		Args:       append([]string(nil), args...),
		SourceFile: sourceFile,
	}
}

// NoOp creates an action that contributes nothing to a script
func NoOp() Action {
	return Action{Kind: ActionNone}
}

// CommandLine renders the program and its arguments separated by spaces.
// Arguments are not quoted.
func (a Action) CommandLine() string {
	if a.Kind != ActionLocal {
		return a.Text
	}
	parts := make([]string, 0, len(a.Args)+1)
	parts = append(parts, a.Program)
	parts = append(parts, a.Args...)
	return strings.Join(parts, " ")
}
