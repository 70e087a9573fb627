package main

import "github.com/seoreports/gscsync/cmd"

func main() {
	cmd.Execute()
}
