// Command shd is the gRPC daemon of spec.md §6.8: it hosts internal/rpc's
// dynamic KnowledgeBase service over TCP, an out-of-process downstream
// consumer of the KB facade that never participates in the core's own
// inference loop. Grounded on the teacher's grpcServe/grpcServeAsync
// (net.Listen + Server.Serve / GracefulStop).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"

	"google.golang.org/grpc"

	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
	"github.com/brianmills2718/semantic-hypergraph/internal/rpc"
)

func main() {
	addr := flag.String("addr", ":7465", "TCP address to listen on")
	flag.Parse()

	if err := run(*addr); err != nil {
		fmt.Fprintln(os.Stderr, "shd:", err)
		os.Exit(1)
	}
}

func run(addr string) error {
	store := kb.New()
	svc, err := rpc.NewService(store)
	if err != nil {
		return fmt.Errorf("shd: building service: %w", err)
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("shd: listen %s: %w", addr, err)
	}

	server := grpc.NewServer()
	svc.Register(server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("shd: shutting down")
		server.GracefulStop()
	}()

	log.Printf("shd: serving sh.v1.KnowledgeBase on %s", addr)
	return server.Serve(lis)
}
