package main

import "cloudport-api/app"

func main() {
	app.Run()
}
