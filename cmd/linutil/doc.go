// Command linutil runs catalog entries on a pseudo-terminal from the console.
//
// Usage:
//
//	linutil list
//	linutil run "Full System Update"
//	linutil run --skip-confirmation --save-log Fastfetch Alacritty
//	linutil tools log
//	linutil version
//
// Configuration comes from LINUTIL_* environment variables; see
// internal/config. Logs go to stderr so stdout carries only command output.
package main
