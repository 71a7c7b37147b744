// Command signupform is a terminal front end for the sign-up form.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/haguru/signup/internal/signupform"
	"github.com/haguru/signup/internal/validation"
	"github.com/haguru/signup/pkg/zerolog"
)

var labels = map[string]string{
	validation.FieldEmail:           "Email",
	validation.FieldName:            "Name",
	validation.FieldPassword:        "Password",
	validation.FieldConfirmPassword: "Confirm password",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("signupform", flag.ContinueOnError)
	fs.SetOutput(out)
	baseURL := fs.String("url", "http://localhost:8080", "base URL of the sign-up service")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	verbose := fs.Bool("v", false, "log submissions to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []signupform.Option{
		signupform.WithOnSuccess(func() { fmt.Fprintln(out, "Account created.") }),
	}
	if *verbose {
		opts = append(opts, signupform.WithLogger(zerolog.NewZerologLoggerWithWriter("signupform", os.Stderr)))
	}
	submitter := signupform.NewHTTPSubmitter(*baseURL, nil)
	form := signupform.NewController(submitter, opts...)
	scanner := bufio.NewScanner(in)

	pending := signupform.Fields
	for {
		for _, field := range pending {
			if err := prompt(form, scanner, out, field); err != nil {
				return err
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, *timeout)
		result, err := form.Submit(reqCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("sign-up failed: %w", err)
		}

		state := form.State()
		switch result {
		case signupform.ResultCreated:
			return nil
		case signupform.ResultInvalid:
			pending = invalidFields(state)
		case signupform.ResultRejected:
			for _, msg := range state.Alert {
				fmt.Fprintf(out, "! %s\n", msg)
			}
			pending = signupform.Fields
		}
	}
}

// prompt reads one field until its inline message clears.
func prompt(form *signupform.Controller, scanner *bufio.Scanner, out io.Writer, field string) error {
	for {
		fmt.Fprintf(out, "%s: ", labels[field])
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return errors.New("input closed before the form was complete")
		}
		if err := form.Change(field, strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
		if err := form.Blur(field); err != nil {
			return err
		}
		msg, invalid := form.State().FieldErrors[field]
		if !invalid {
			return nil
		}
		fmt.Fprintf(out, "  %s\n", msg)
	}
}

func invalidFields(state signupform.State) []string {
	var fields []string
	for _, field := range signupform.Fields {
		if _, ok := state.FieldErrors[field]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}
