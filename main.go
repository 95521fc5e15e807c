package main

import "github.com/GFT-POC/Ollama-Chat/cmd"

func main() {
	cmd.Execute()
}
