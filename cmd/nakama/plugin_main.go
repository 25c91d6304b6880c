package main

// main is unused when built with -buildmode=plugin; it lets `go build ./...` link this package.
func main() {}
