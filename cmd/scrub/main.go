package main

import "github.com/MeKo-Tech/scrub/cmd/scrub/cmd"

func main() {
	cmd.Execute()
}
