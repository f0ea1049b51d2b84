//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of tinderbox requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/tinderbox`, or use ./cmd/tinderbox-tui for the terminal viewer.")
	os.Exit(2)
}
