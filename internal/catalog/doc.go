// Package catalog loads the tabs of runnable entries shown by linutil.
//
// Each tab lives in a directory holding a tab_data.toml (or .yaml) file:
//
//	name = "System Setup"
//
//	[[data]]
//	name = "Arch Linux"
//
//	[[data.entries]]
//	name = "Paru AUR Helper"
//	description = "Installs the paru AUR helper"
//	script = "arch/paru-setup.sh"
//
//	[[data]]
//	name = "Full System Update"
//	command = "sudo pacman -Syu"
//	multi_select = false
//
// Entries with a command run it verbatim. Entries with a script run the
// file through the interpreter named by its shebang, from the script's own
// directory. Entries with children are folders and never run.
package catalog
