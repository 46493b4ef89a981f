// cmd/server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := newCmd(defaultConfig())
	cobra.CheckErr(err)

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		cobra.CheckErr(err)
	}
}
