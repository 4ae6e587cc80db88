// cmd/fvsim/main.go
package main

import (
	"fvsim/internal/app"
	"fvsim/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
