package main

import "gymhub/internal/app/server"

func main() {
	server.Run()
}
