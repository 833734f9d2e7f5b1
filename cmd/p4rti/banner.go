package main

import (
	"io"

	"github.com/fatih/color"
)

const logo = `
   ____  _  _   _____  _____  _
  |  _ \| || | |  __ \|_   _|(_)
  | |_) | || |_| |__) | | |   _
  |  __/|__   _|  _  /  | |  | |
  |_|      |_| |_| \_\  |_|  |_|
`

func printBanner(w io.Writer) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	green.Fprint(w, logo)
	yellow.Fprintln(w, "---------------------------------------------------------------------->")
	green.Fprint(w, "\n\tp4rti ")
	cyan.Fprintln(w, "- A simple TCP connect port scanner")
	green.Fprint(w, "\t\tVersion : ")
	color.New(color.FgBlue).Fprintln(w, version)
	yellow.Fprintln(w, "---------------------------------------------------------------------->")
	w.Write([]byte("\n"))
}
