package main

import "github.com/anonto42/campus-diary/backend/cmd/server/cmd"

func main() {
	cmd.Execute()
}
