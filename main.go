package main

import "resto-reviews-backend/cmd"

func main() {
	cmd.Run()
}
