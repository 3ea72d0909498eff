package main

import "rewear-backend/cmd"

func main() {
	cmd.Run()
}
