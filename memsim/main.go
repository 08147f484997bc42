// Command memsim runs the paging and segmentation simulators.
package main

import (
	"github.com/sarchlab/memsim/memsim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
