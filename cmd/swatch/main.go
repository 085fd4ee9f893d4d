// Swatch - Names the colour in front of a camera
//
// Swatch samples a square of each frame, averages the samples over a short
// window and names the result using the CIEDE2000 colour difference.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/swatch/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
