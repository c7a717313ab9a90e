package main

import (
	"github.com/spf13/cobra"

	"github.com/mailforge/mimecodec/cmd/mimecodec/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
