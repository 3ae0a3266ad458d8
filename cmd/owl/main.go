// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command owl registers or logs in a user on an Owl server over HTTP.
//
//	owl -url https://auth.example -server auth.example -user alice -register
//	owl -url https://auth.example -server auth.example -user alice
//
// The password is prompted for when -password is not set.
package main

import (
	"context"
	"crypto"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bytemare/hash"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/bytemare/owl"
	"github.com/bytemare/owl/remote"
)

const fingerprintLength = 8

type options struct {
	url      string
	user     string
	password string
	server   string
	curve    string
	config   string
	timeout  time.Duration
	register bool
	showKey  bool
	verbose  bool
}

func main() {
	opts := &options{}

	flag.StringVar(&opts.url, "url", "http://127.0.0.1:8080", "base URL of the server")
	flag.StringVar(&opts.user, "user", "", "username")
	flag.StringVar(&opts.password, "password", "", "password, prompted for if empty")
	flag.StringVar(&opts.server, "server", "", "server identity")
	flag.StringVar(&opts.curve, "curve", "P-256", "curve: P-256, P-384 or P-521")
	flag.StringVar(&opts.config, "config", "", "JSON configuration file, overriding -curve")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout of the whole exchange")
	flag.BoolVar(&opts.register, "register", false, "register instead of logging in")
	flag.BoolVar(&opts.showKey, "show-key", false, "print the session key instead of its fingerprint")
	flag.BoolVar(&opts.verbose, "v", false, "print debug logs")
	flag.Parse()

	if err := run(opts); err != nil {
		color.Red("[!] %s", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	conf, err := configuration(opts)
	if err != nil {
		return err
	}

	if opts.password == "" {
		if opts.password, err = prompt(opts.user); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	client := remote.New(opts.url, &http.Client{}, conf.Logger)
	creds := &remote.Credentials{Username: opts.user, Password: opts.password, Server: opts.server}

	if opts.register {
		color.Yellow("[-] Registering %s on %s", opts.user, opts.url)

		if err = client.RegisterUser(ctx, conf, creds); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		color.Green("[+] Registered %s", opts.user)

		return nil
	}

	color.Yellow("[-] Logging in %s on %s", opts.user, opts.url)

	start := time.Now()

	key, err := client.Login(ctx, conf, creds)
	if err != nil {
		if errors.Is(owl.Redact(err), owl.ErrAuthentication) {
			color.Red("[!] The server could not be authenticated")
		}

		return fmt.Errorf("login failed: %w", err)
	}

	color.Green("[+] Authenticated")
	summary(opts, conf, key, time.Since(start))

	return nil
}

func configuration(opts *options) (*owl.Configuration, error) {
	conf := owl.DefaultConfiguration()

	if opts.config != "" {
		data, err := os.ReadFile(opts.config)
		if err != nil {
			return nil, err
		}

		if err = json.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
	} else {
		c, err := owl.ParseCurve(opts.curve)
		if err != nil {
			return nil, err
		}

		conf.Curve = c
	}

	if opts.verbose {
		conf.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return conf, conf.Verify()
}

func prompt(user string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return "", fmt.Errorf("creating the prompt: %w", err)
	}

	defer func() {
		_ = rl.Close()
	}()

	password, err := rl.ReadPassword(fmt.Sprintf("Password for %s: ", user))
	if err != nil {
		return "", err
	}

	return string(password), nil
}

func summary(opts *options, conf *owl.Configuration, key []byte, elapsed time.Duration) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeader([]string{"Parameter", "Value"})
	table.AppendBulk(summaryRows(opts, conf, key, elapsed))

	fmt.Println()
	table.Render()
	fmt.Println()
}

func summaryRows(opts *options, conf *owl.Configuration, key []byte, elapsed time.Duration) [][]string {
	rows := [][]string{
		{"User", opts.user},
		{"Server", opts.server},
		{"Curve", conf.Curve.String()},
		{"Duration", elapsed.Round(time.Millisecond).String()},
		{"Key fingerprint", fingerprint(key)},
	}

	if opts.showKey {
		rows = append(rows, []string{"Session key", hex.EncodeToString(key)})
	}

	return rows
}

// fingerprint returns the first 8 bytes of the SHA-256 digest of the key, in hex.
func fingerprint(key []byte) string {
	h := hash.FromCrypto(crypto.SHA256).GetHashFunction()
	_, _ = h.Write(key)

	return hex.EncodeToString(h.Sum(nil)[:fingerprintLength])
}
