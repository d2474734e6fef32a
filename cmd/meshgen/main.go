// Command meshgen generates the configuration of a mesh SNN simulation.
package main

import "github.com/sarchlab/meshgen/cmd"

func main() {
	cmd.Execute()
}
