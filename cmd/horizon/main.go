package main

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-horizon/internal/cmd"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	cmd.Execute()
}
