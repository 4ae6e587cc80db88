// cmd/fvsweep/main.go
package main

import (
	"fvsim/internal/appshell"
	"fvsim/internal/sweepapp"
)

func main() {
	appshell.Main(sweepapp.RunContext)
}
