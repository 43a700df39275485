// Package daemon owns the overlay's steady-state render loop: one
// goroutine that multiplexes every widget's wake sources, the command
// channel, and the minute timer into sequential whole-surface redraws.
package daemon
