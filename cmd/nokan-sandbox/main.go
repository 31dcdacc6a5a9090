// Command nokan-sandbox serves a local, SQLite-backed copy of the nokan public
// API for developing and testing against the SDK.
package main

func main() {
	Execute()
}
