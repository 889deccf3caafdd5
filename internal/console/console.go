package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/dmitrijs2005/landmarkbot/internal/server/workflow"
	"golang.org/x/term"
)

// Test seams for terminal access.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Handler is the message surface of the front.
type Handler interface {
	OnTextMessage(ctx context.Context, userID int64, text string) []workflow.Reply
	OnMediaMessage(ctx context.Context, userID int64, refs []models.MediaRef) []workflow.Reply
	OnCommand(ctx context.Context, userID int64, name string, args []string) []workflow.Reply
}

type Console struct {
	handler Handler
	userID  int64
	in      io.Reader
	out     io.Writer
	fd      int
	logger  logging.Logger
}

// New builds a console reading from stdin and writing to stdout.
func New(handler Handler, userID int64, logger logging.Logger) *Console {
	return NewWithIO(handler, userID, os.Stdin, os.Stdout, int(os.Stdin.Fd()), logger)
}

// NewWithIO builds a console on arbitrary streams. fd is the descriptor
// consulted for no-echo input.
func NewWithIO(handler Handler, userID int64, in io.Reader, out io.Writer, fd int, logger logging.Logger) *Console {
	return &Console{handler: handler, userID: userID, in: in, out: out, fd: fd, logger: logger}
}

type line struct {
	text string
	err  error
}

// Run reads lines until EOF, /exit or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	reader := bufio.NewReader(c.in)
	secret := false

	fmt.Fprintln(c.out, "Введите /start, чтобы начать, или /help для списка команд.")

	for {
		lines := make(chan line, 1)
		go func(secret bool) {
			s, err := c.readLine(reader, secret)
			lines <- line{s, err}
		}(secret)

		var l line
		select {
		case <-ctx.Done():
			return nil
		case l = <-lines:
		}

		if l.err == io.EOF && l.text == "" {
			return nil
		}
		if l.err != nil && l.err != io.EOF {
			return fmt.Errorf("read input: %w", l.err)
		}

		replies, exit := c.dispatch(ctx, l.text)
		if exit {
			fmt.Fprintln(c.out, "До свидания!")
			return nil
		}
		secret = c.print(replies)

		if l.err == io.EOF {
			return nil
		}
	}
}

func (c *Console) readLine(reader *bufio.Reader, secret bool) (string, error) {
	if secret && isTerminal(c.fd) {
		fmt.Fprint(c.out, "> ")
		pw, err := readPassword(c.fd)
		fmt.Fprintln(c.out)
		s := string(pw)
		clear(pw)
		return s, err
	}

	fmt.Fprint(c.out, "> ")
	s, err := reader.ReadString('\n')
	return strings.TrimRight(s, "\r\n"), err
}

// dispatch delivers one line. The second result asks Run to stop.
func (c *Console) dispatch(ctx context.Context, text string) ([]workflow.Reply, bool) {
	if !strings.HasPrefix(text, "/") {
		return c.handler.OnTextMessage(ctx, c.userID, text), false
	}

	fields := strings.Fields(text)
	name, args := strings.TrimPrefix(fields[0], "/"), fields[1:]

	switch name {
	case "exit", "quit":
		return nil, true
	case "photo":
		if len(args) == 0 {
			return []workflow.Reply{{Text: "Использование: /photo <файл или URL>..."}}, false
		}
		refs := make([]models.MediaRef, 0, len(args))
		for _, a := range args {
			ref, err := describeRef(a)
			if err != nil {
				c.logger.Warn(ctx, "photo not readable", "ref", a, "error", err)
				return []workflow.Reply{{Text: fmt.Sprintf("Не удалось прочитать %s: %v", a, err)}}, false
			}
			refs = append(refs, ref)
		}
		return c.handler.OnMediaMessage(ctx, c.userID, refs), false
	}

	return c.handler.OnCommand(ctx, c.userID, name, args), false
}

// print writes replies and reports whether the last one expects a secret.
func (c *Console) print(replies []workflow.Reply) bool {
	secret := false
	for _, r := range replies {
		fmt.Fprintln(c.out, r.Text)
		if len(r.Buttons) > 0 {
			fmt.Fprintf(c.out, "[%s]\n", strings.Join(r.Buttons, "] ["))
		}
		secret = r.Secret
	}
	return secret
}
