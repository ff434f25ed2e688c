package main

import "github.com/petalmart/storefront/cmd"

func main() {
	cmd.Start()
}
