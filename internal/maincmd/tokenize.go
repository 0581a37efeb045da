package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/werbolg/lang/lispy"
	"github.com/mna/werbolg/lang/lispy/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans each of files in turn and prints one line per
// token: its source position, its kind, and its literal payload if it
// has one.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	var failed bool
	for _, file := range files {
		if err := tokenizeFile(stdio, file); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("tokenize: one or more files failed")
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var scanErrs []error
	var s lispy.Scanner
	s.Init(src, func(err error) { scanErrs = append(scanErrs, err) })

	for {
		tok, val := s.Scan()
		fmt.Fprintf(stdio.Stdout, "%s:%d:%d: %s", file, val.Pos.Line, val.Pos.Col, tok)
		if lit := literalOf(tok, val); lit != "" {
			fmt.Fprintf(stdio.Stdout, " %s", lit)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok == token.EOF {
			break
		}
	}

	for _, e := range scanErrs {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, e)
	}
	if len(scanErrs) > 0 {
		return fmt.Errorf("%d lexical error(s)", len(scanErrs))
	}
	return nil
}

func literalOf(tok token.Token, val token.Value) string {
	switch tok {
	case token.IDENT, token.NUMBER:
		return val.Raw
	case token.STRING:
		return fmt.Sprintf("%q", val.Str)
	case token.BYTES:
		return fmt.Sprintf("#%x#", val.Bytes)
	case token.BOOL:
		if val.Bool {
			return "#t"
		}
		return "#f"
	default:
		return ""
	}
}
