package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commander is the command surface the loop dispatches to. Console
// satisfies it; tests can provide a stub.
type commander interface {
	List(ctx context.Context) error
	Show(ctx context.Context, key string) error
	Add(ctx context.Context, line string) error
	Import(ctx context.Context, path string) error
	Export(ctx context.Context, path, key string) error
	ASF(ctx context.Context, template, path string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) error
}

const helpText = `Available commands:
  list                       list stored accounts
  show <key>                 show one account
  add <line>                 import login:password:mail:mail_password[:link]
  import <file>              import a .zip bundle, a .maFile or a text file of lines
  export <file.zip> [key]    export one account, or all of them
  asf <template.json> <file.zip>
                             build ASF bot configs from a template
  delete <key>               delete one account
  clear                      delete every account
  count                      show how many accounts are stored
  exit | quit                leave the console

File paths may be relative to the working directory or absolute.`

// runREPL reads commands until EOF, exit or quit. Command errors are printed
// and the loop continues.
func runREPL(ctx context.Context, c commander, in *bufio.Reader, out io.Writer, prompt string) {
	for {
		if prompt != "" {
			fmt.Fprint(out, prompt)
		}
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		rest = strings.TrimSpace(rest)
		args := strings.Fields(rest)
		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}

		var cmdErr error
		switch cmd {
		case "":
			continue
		case "help":
			fmt.Fprintln(out, helpText)
		case "l", "list":
			cmdErr = c.List(ctx)
		case "show":
			cmdErr = c.Show(ctx, arg(0))
		case "add":
			cmdErr = c.Add(ctx, rest)
		case "import":
			cmdErr = c.Import(ctx, arg(0))
		case "export":
			cmdErr = c.Export(ctx, arg(0), arg(1))
		case "asf":
			cmdErr = c.ASF(ctx, arg(0), arg(1))
		case "delete", "rm":
			cmdErr = c.Delete(ctx, arg(0))
		case "clear":
			cmdErr = c.Clear(ctx)
		case "count":
			cmdErr = c.Count(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
