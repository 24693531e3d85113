package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/GoAethereal/cancel"
)

// notifyShutdown cancels ctx on SIGINT/SIGTERM, mirroring
// signal.NotifyContext as used by the reference gdb-rsp-server command,
// adapted to this module's cancel.Context instead of the stdlib context.
func notifyShutdown(ctx cancel.Context) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		ctx.Cancel()
	}()
}
