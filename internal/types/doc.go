// Package types provides shared data structures for linutil.
//
// Core Types:
//   - Action: Shell-runnable catalog entry (raw line, local executable, no-op)
//   - Service: Service provider definition
//   - Tool: Service tool definition
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Example Usage:
//
//	actions := []types.Action{
//	    types.RawShellLine("echo hello"),
//	    types.LocalExecutable("/bin/sh", []string{"/opt/tabs/setup.sh"}, "/opt/tabs/setup.sh"),
//	}
package types
