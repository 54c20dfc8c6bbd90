package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	matchclient "github.com/HMasataka/rally/pkg/match"
	rallywebrtc "github.com/HMasataka/rally/pkg/webrtc"
	"github.com/jessevdk/go-flags"
)

type Options struct {
	Server string `long:"server" description:"Relay server URL" default:"ws://localhost:8080/ws"`
}

var opts Options

func newClient() *matchclient.Client {
	options := matchclient.DefaultClientOptions(opts.Server)
	options.Negotiator = matchclient.PionNegotiatorFactory(rallywebrtc.DefaultPeerConnectionOptions())

	return matchclient.NewClient(options)
}

func runUntilInterrupt(client *matchclient.Client) error {
	errCh := make(chan error, 1)

	client.OnChannelReady(func(dc matchclient.DataChannel) {
		fmt.Println("data channel open:", dc.Label())

		dc.OnMessage(func(data []byte) {
			fmt.Printf("peer: %s\n", data)
		})

		if err := dc.SendText("hello from " + os.Args[0]); err != nil {
			fmt.Println("failed to greet peer:", err)
		}
	})

	client.OnError(func(err error) {
		errCh <- err
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		client.Disconnect()
		return err
	case <-sigCh:
		client.Disconnect()
		return nil
	}
}

type CreateCommand struct{}

func (cmd *CreateCommand) Execute(args []string) error {
	client := newClient()

	code, err := client.CreateMatch(context.Background())
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	fmt.Println("match code:", code)
	fmt.Println("waiting for a peer to join...")

	return runUntilInterrupt(client)
}

type JoinCommand struct {
	Code string `long:"code" description:"Match code" required:"true"`
}

func (cmd *JoinCommand) Execute(args []string) error {
	client := newClient()

	if err := client.JoinMatch(context.Background(), cmd.Code); err != nil {
		return fmt.Errorf("join failed: %w", err)
	}

	fmt.Println("joined match:", cmd.Code)

	return runUntilInterrupt(client)
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.AddCommand("create", "Create a match", "", &CreateCommand{})
	parser.AddCommand("join", "Join a match", "", &JoinCommand{})

	_, err := parser.Parse()
	if err != nil {
		log.Fatal(err)
	}
}
