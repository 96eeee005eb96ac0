// Command hzip compresses and decompresses single files through an
// interactive menu on standard input.
package main

import (
	"log/slog"
	"os"

	"github.com/seiflotfy/hzip/internal/menu"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := menu.New(os.Stdin, os.Stdout, logger).Run(); err != nil {
		logger.Error("menuStopped", "err", err)
	}
}
