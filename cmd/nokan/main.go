// Command nokan is a command-line client for a nokan board's public API.
package main

func main() {
	Execute()
}
