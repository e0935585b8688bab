package main

import "wipstash/cmd"

func main() {
	cmd.Execute()
}
