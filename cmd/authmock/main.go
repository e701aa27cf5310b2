// Command authmock runs the in-memory authentication backend on a real
// listener so the CLI can be tried without the production server.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/authclient/internal/authmock"
	"github.com/dmitrijs2005/authclient/internal/flagx"
	"github.com/dmitrijs2005/authclient/internal/logging"
)

func main() {
	addr := ":8080"
	secret := "authmock-secret"
	ttlMinutes := 60

	err := flagx.ParseSubset("authmock", os.Args[1:], []string{"-a", "-s", "-t"}, func(fs *flag.FlagSet) {
		fs.StringVar(&addr, "a", addr, "address and port to run server")
		fs.StringVar(&secret, "s", secret, "JWT HMAC secret key")
		fs.IntVar(&ttlMinutes, "t", ttlMinutes, "token validity (in minutes)")
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	backend := authmock.NewBackend()
	backend.SetSecret([]byte(secret))
	backend.TokenTTL = time.Duration(ttlMinutes) * time.Minute

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := backend.Serve(ctx, ln, logger); err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}
}
