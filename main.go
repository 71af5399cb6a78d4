// main.go - Application entry point
package main

import "tileblend/cmd"

func main() {
	cmd.Execute()
}
