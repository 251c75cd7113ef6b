package commands

import (
	"fmt"
	"time"
)

// All commands round durations the same way in their output.
const timeRound = 10 * time.Millisecond

// printSeparator draws the section divider used by the table outputs.
func printSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}
