package main

import "github.com/johnlatif16/Story-stories/cmd/storyapi/cmd"

func main() {
	cmd.Execute()
}
