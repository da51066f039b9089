package main

import "hotel-erp/internal/cli"

func main() {
	cli.Execute()
}
