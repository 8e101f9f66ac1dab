// Package main runs a standalone NATS server for local development.
//
// The examples need a server to connect to; running this binary starts one
// without installing anything system-wide. The connection URL is printed to
// stdout so it can be exported as NATS_URL for the example processes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

func main() {
	port := flag.Int("port", -1, "port to listen on (-1 picks a free port)")
	flag.Parse()

	opts := &server.Options{
		Host:   "127.0.0.1",
		Port:   *port,
		NoLog:  true,
		NoSigs: true, // handled below so shutdown can be graceful
	}

	srv, err := server.NewServer(opts)
	if err != nil {
		log.Fatal("Failed to create NATS server:", err)
	}

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		log.Fatal("NATS server not ready within timeout")
	}

	// The parent shell reads these lines to locate the server.
	fmt.Printf("NATS_URL=%s\n", srv.ClientURL())
	fmt.Println("NATS_READY=true")
	_, _ = fmt.Fprintf(os.Stderr, "NATS server started at %s (PID: %d)\n", srv.ClientURL(), os.Getpid())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	_, _ = fmt.Fprintln(os.Stderr, "Shutting down NATS server...")

	srv.Shutdown()
	srv.WaitForShutdown()

	_, _ = fmt.Fprintln(os.Stderr, "NATS server stopped")
}
