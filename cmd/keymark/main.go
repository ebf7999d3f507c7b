// Copyright 2025 The keymark Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the keymark engine as an IPC server or an interactive input.

keymark keeps "key" entities aligned with a message buffer while the user
types, and offers tiered autocomplete for inserting new ones. Keys come from
a chat backend's keys endpoint or a local key file.

# Usage

Serve msgpack IPC on stdin/stdout (the default command):

	keymark
	keymark serve --url http://localhost:5000/keys -d

Try the engine interactively:

	keymark repl --keys keys.yaml

Inspect or reset the config file:

	keymark config path
	keymark config show
	keymark config rebuild

# Configuration

Settings live in a TOML file, created with defaults on first run:

	[catalog]
	url = "http://localhost:5000/keys"
	token_env = "KEYMARK_TOKEN"
	keys_file = ""

	[suggest]
	max_matches = 0
	cache_size = 256

	[server]
	ready_banner = true

	[cli]
	show_entities = true

The bearer token for the keys endpoint is read from the environment variable
named by token_env, never from the file. A key file path may be relative to
the config dir, the executable or the working directory.

# IPC Protocol

See package server for the request and response frames. stdout carries
nothing but msgpack; logs go to stderr.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
	AppName = "keymark"
	gh      = "https://github.com/bastiangx/keymark"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

type rootFlags struct {
	configPath string
	debug      bool
	url        string
	keysFile   string
}

func main() {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   AppName,
		Short: "Entity-aware message input with key autocomplete",
		Long:  "keymark tracks key entities in a message buffer and autocompletes new ones, over msgpack IPC or interactively.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config.toml")
	root.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "Toggle debug mode")
	root.PersistentFlags().StringVar(&flags.url, "url", "", "Keys endpoint, overrides [catalog].url")
	root.PersistentFlags().StringVar(&flags.keysFile, "keys", "", "Key file, overrides [catalog].keys_file")

	root.AddCommand(serveCmd(flags))
	root.AddCommand(replCmd(flags))
	root.AddCommand(configCmd(flags))
	root.AddCommand(versionCmd())

	sigHandler()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
