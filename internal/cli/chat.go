package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/pocketgem/internal/inference"
)

const WelcomeMessage = "Welcome to pocketGem!\nAsk Gemini a question below."

var errEnd = errors.New("end of chat")

// ChatCLI is an interactive question loop over an inference.Asker
type ChatCLI struct {
	asker        inference.Asker
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
}

func NewChatCLI(asker inference.Asker) *ChatCLI {
	return &ChatCLI{
		asker:        asker,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
	}
}

// RenderExchange formats one question and its answer the way they are
// appended to the transcript.
func RenderExchange(question, answer string) string {
	return "\n> " + question + "\n\n" + answer + "\n"
}

//go:generate mockgen -source=chat.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(ctx context.Context) error
}

// Session reads one line, asks it and writes the exchange.
// It returns errEnd on quit, exit or end of input.
func (cli *ChatCLI) Session(ctx context.Context) error {
	if _, err := cli.bold.Fprint(cli.stdoutWriter, "? "); err != nil {
		return fmt.Errorf("failed to write a prompt > %w", err)
	}

	line, readErr := cli.stdinReader.ReadString('\n')
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return fmt.Errorf("stdinReader.ReadString() > %w", readErr)
	}
	atEOF := readErr != nil

	question := strings.TrimRight(line, "\r\n")
	switch strings.TrimSpace(question) {
	case "quit", "exit":
		return errEnd
	}
	if question == "" {
		if atEOF {
			return errEnd
		}
		return nil
	}

	answer := cli.asker.Ask(question)
	if _, err := fmt.Fprint(cli.stdoutWriter, RenderExchange(question, answer)); err != nil {
		return fmt.Errorf("failed to write an answer > %w", err)
	}
	if atEOF {
		return errEnd
	}
	return nil
}

// Run prints the welcome banner and runs session until it ends or an
// interrupt arrives.
func (cli *ChatCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	if _, err := fmt.Fprintln(cli.stdoutWriter, WelcomeMessage); err != nil {
		return fmt.Errorf("failed to write the welcome message > %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := session.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "\nReceived interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}
