package main

import "github.com/Taichi-iskw/yt-notes/cmd"

func main() {
	cmd.Execute()
}
