package main

import "github.com/captionworks/yt-transcripts/cmd"

func main() {
	cmd.Execute()
}
