// Package cmd runs external commands with stderr folded into errors.
//
// Commands are traced through the context logger in verbose mode, and a
// canceled context is reported as the context error rather than the
// process exit status.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, dir, "sh", "-c", script); err != nil {
//	    // err carries the command's stderr when it printed any
//	}
//
//	out, err := cmd.OutputContext(ctx, "", "git", "-C", root, "status", "--short")
package cmd
