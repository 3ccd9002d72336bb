package main

import "github.com/naka-gawa/weekly-commits/cmd"

func main() {
	cmd.Execute()
}
