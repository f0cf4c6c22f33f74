package main

import (
	"marketsnap/cmd/marketsnap/commands"
	"marketsnap/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
