package main

import (
	"os"

	"github.com/vlo-krakow/timetable/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
