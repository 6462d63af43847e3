// Package ui renders progress, notes, and errors for the cmtr CLI, with
// in-place status updates on a terminal and plain lines otherwise.
package ui
