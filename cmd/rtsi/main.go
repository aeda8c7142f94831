package main

import "rtsi-fw/internal/cli"

func main() {
	cli.Execute()
}
