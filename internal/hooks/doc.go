// Package hooks runs user-defined shell commands after folio operations.
//
// Hooks are shell commands defined in config that run after a project is
// created or synced, e.g. to open an editor, commit the new folder, or
// notify a channel. A failing hook never undoes the operation it follows.
//
// # Hook Selection
//
//   - Automatic: Hooks with "on" config matching the command type run automatically
//   - Manual: Use --hook=name to run a specific hook, --no-hook to skip all
//
// Example config:
//
//	[hooks.editor]
//	command = "code {path}"
//	on = ["new"]
//
//	[hooks.announce]
//	command = "echo 'Started {title}'"
//	# no "on" - only runs via --hook=announce
//
// # Placeholder Substitution
//
//   - {path}: Absolute project root
//   - {id}: Project identifier
//   - {title}: Project title
//   - {organization}: Organization
//   - {year}: Project year
//   - {trigger}: Command that triggered the hook (new, sync)
//
// Custom variables via --arg key=value:
//
//   - {key}: Value from --arg key=value
//   - {key:raw}: Value without shell quoting
//   - {key:-default}: Value with fallback if not provided
//
// Hooks run with the working directory set to the project root.
//
// # Stdin Support
//
// Use --arg key=- to read stdin content into a variable:
//
//	echo "kickoff notes" | folio new "Acme Launch" --hook note --arg text=-
package hooks
