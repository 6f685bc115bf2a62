package main

import "github.com/TonyS-dev/nexus-hr/cmd"

func main() {
	cmd.Execute()
}
