package main

import "github.com/Dosada05/club-admin/cli"

func main() {
	cli.Execute()
}
