// Command dreambank runs the dream bank CLI and HTTP API.
package main

import "github.com/tutu-network/dreambank/internal/cli"

func main() {
	cli.Execute()
}
