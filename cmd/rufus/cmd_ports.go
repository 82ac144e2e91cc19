package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rufuslabs/go-rufus/pkg/link"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial devices and mark controller candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := link.ListDevices()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("no serial devices found")
				return nil
			}
			for _, d := range devices {
				marker := "  "
				if link.DefaultMatch(d) {
					marker = "* "
				}
				if d.Product != "" {
					fmt.Printf("%s%s  (%s %s:%s)\n", marker, d.Path, d.Product, d.VID, d.PID)
				} else {
					fmt.Printf("%s%s\n", marker, d.Path)
				}
			}
			return nil
		},
	}
}
