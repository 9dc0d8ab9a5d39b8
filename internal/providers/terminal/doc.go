// Package terminal runs command scripts on a pseudo-terminal.
//
// A list of actions is composed into one shell script and started as
// `<shell> -c <script>` with a pty as its controlling terminal. Each session
// runs two goroutines: a reader that decodes pty output, strips terminal
// escape sequences and appends the text to an append-only output log, and
// a waiter that records the exit outcome exactly once.
//
// Shared state lives in separate guarded cells (output log, input writer,
// kill handle, status). A panic while a cell is held poisons it, after which
// the cell reports ErrInternalStateCorrupted instead of serving torn state.
//
// Example Usage:
//
//	manager := terminal.NewManager(terminal.DefaultOptions())
//	session, err := manager.Run([]types.Action{
//		types.RawShellLine("echo hello"),
//	})
//
//	// Incremental reads
//	text, offset, err := session.ReadSince(0)
//
//	// Interactive prompts
//	err = session.SendInput("y")
//
//	// Stop and inspect
//	_ = session.Kill()
//	outcome := session.Completion()
//
//	// Export the captured output
//	path, err := session.SaveLog()
//
// Tools:
//   - terminal.run: Compose and start a script
//   - terminal.read: Read output since an offset
//   - terminal.write: Send a line of input
//   - terminal.kill: Terminate the process
//   - terminal.status: Completion state and exit code
//   - terminal.save_log: Export output to a timestamped file
//   - terminal.resize: Resize the pty
//   - terminal.list_sessions: List sessions
//   - terminal.close: Release a session
package terminal
