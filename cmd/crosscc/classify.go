package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

var (
	tripleColor = color.New(color.Bold)
	cpuColor    = color.New(color.FgYellow)
	osColor     = color.New(color.FgGreen)
)

var classifyCmd = &cobra.Command{
	Use:   "classify TRIPLE...",
	Short: "Print the cpu and os constraints of target triples",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		for _, arg := range args {
			c, err := toolchain.Classify(toolchain.Triple(arg))
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s\tcpu=%s\tos=%s\n", tripleColor.Sprint(arg), cpuColor.Sprint(c.CPU), osColor.Sprint(c.OS))
		}

		return nil
	},
}
