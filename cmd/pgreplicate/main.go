/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/suryatmodulus/pg-replicate/cmd/pgreplicate/cmd"
)

func main() {
	cmd.Execute()
}
