//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "trayaccess-demo requires Linux: it talks to GTK and the session D-Bus")
	os.Exit(1)
}
