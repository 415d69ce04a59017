package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/cstr/log"
	"github.com/rubiojr/cstr/source"
	"github.com/rubiojr/cstr/str"
)

func (a *app) replaceAction(ctx context.Context, cmd *cli.Command) error {
	old, repl, file, err := replaceArgs(cmd)
	if err != nil {
		return err
	}
	s, err := a.input(cmd, file)
	if err != nil {
		return err
	}
	defer s.Destroy()

	n, err := s.ReplaceString(old, repl)
	log.Status("replace", str.StatusOf(err).String(), err)
	if err != nil {
		return err
	}
	fmt.Fprintf(errOut(cmd), "%d replacements\n", n)

	if output := cmd.String("output"); output != "" {
		if err := source.WriteFile(output, s); err != nil {
			return err
		}
		log.Info().Str("path", output).Int("len", s.Len()).Msg("output written")
		return nil
	}
	_, err = s.WriteTo(out(cmd))
	return err
}

// replaceArgs resolves the pattern, the replacement and the optional input
// file. The --old/--new flags win over positional arguments.
func replaceArgs(cmd *cli.Command) (old, repl, file string, err error) {
	if cmd.IsSet("old") || cmd.IsSet("new") {
		if !cmd.IsSet("old") {
			return "", "", "", fmt.Errorf("%w: --new given without --old", str.ErrInvalidArgument)
		}
		if cmd.NArg() > 1 {
			return "", "", "", fmt.Errorf("usage: cstr replace --old <old> [--new <new>] [file]")
		}
		return cmd.String("old"), cmd.String("new"), cmd.Args().First(), nil
	}
	if cmd.NArg() < 2 || cmd.NArg() > 3 {
		return "", "", "", fmt.Errorf("usage: cstr replace [-o output] [--] <old> <new> [file]")
	}
	return cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2), nil
}

func (a *app) appendAction(ctx context.Context, cmd *cli.Command) error {
	var (
		s   *str.String
		err error
	)
	if path := cmd.String("file"); path != "" {
		s, err = source.ReadFile(path, a.opts...)
	} else {
		s, err = str.New(a.opts...)
	}
	if err != nil {
		return err
	}
	defer s.Destroy()

	for _, text := range cmd.Args().Slice() {
		err := s.AppendString(text)
		log.Status("append", str.StatusOf(err).String(), err)
		if err != nil {
			return err
		}
	}
	_, err = s.WriteTo(out(cmd))
	return err
}

func (a *app) sliceAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 2 {
		return fmt.Errorf("usage: cstr slice <first> <last> [file]")
	}
	first, err := parseIndex("first", cmd.Args().Get(0))
	if err != nil {
		return err
	}
	last, err := parseIndex("last", cmd.Args().Get(1))
	if err != nil {
		return err
	}
	s, err := a.input(cmd, cmd.Args().Get(2))
	if err != nil {
		return err
	}
	defer s.Destroy()

	part, err := s.Slice(first, last)
	log.Status("slice", str.StatusOf(err).String(), err)
	if err != nil {
		return err
	}
	defer part.Destroy()
	_, err = part.WriteTo(out(cmd))
	return err
}

func (a *app) containsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: cstr contains <pattern> [file]")
	}
	s, err := a.input(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}
	defer s.Destroy()

	if !s.ContainsString(cmd.Args().First()) {
		return errAbsent
	}
	return nil
}

func (a *app) statsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := a.input(cmd, cmd.Args().First())
	if err != nil {
		return err
	}
	defer s.Destroy()

	const label = "\033[1m"
	w := out(cmd)
	fmt.Fprintf(w, "%s %d\n", a.paint(label, "length:  "), s.Len())
	fmt.Fprintf(w, "%s %d\n", a.paint(label, "capacity:"), s.Cap())
	fmt.Fprintf(w, "%s %d\n", a.paint(label, "slack:   "), s.Cap()-s.Len()-1)
	return nil
}

func parseIndex(name, arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s index %q is not an integer", str.ErrInvalidArgument, name, arg)
	}
	return i, nil
}

// demoAction runs every String operation in sequence, printing the state
// after each step.
func (a *app) demoAction(ctx context.Context, cmd *cli.Command) error {
	w := out(cmd)
	step := func(name string, s *str.String) {
		fmt.Fprintf(w, "%-10s len=%-3d cap=%-3d %q\n", a.paint("\033[36m", name), s.Len(), s.Cap(), s.String())
	}

	s, err := str.Concat([]string{"Hello", ", World! ", "This", " is ", "cstr", "!"}, a.opts...)
	if err != nil {
		return err
	}
	defer s.Destroy()
	step("concat", s)

	if err := s.AppendString(" This is a new library"); err != nil {
		return err
	}
	step("append", s)

	if _, err := s.ReplaceString("new", "kickass"); err != nil {
		return err
	}
	step("replace", s)

	if err := s.Push('!'); err != nil {
		return err
	}
	step("push", s)

	c, err := s.Pop()
	if err != nil {
		return err
	}
	step("pop", s)
	fmt.Fprintf(w, "  popped %q\n", c)

	fmt.Fprintf(w, "  equal:    %v\n", s.EqualString("Hello, World! This is cstr! This is a kickass library"))
	fmt.Fprintf(w, "  contains: %v\n", s.ContainsString("cstr"))

	at, err := s.At(7)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  at(7):    %q\n", at)

	if err := s.Set(0, 'J'); err != nil {
		return err
	}
	step("set", s)

	if err := s.RemoveAt(5); err != nil {
		return err
	}
	step("remove_at", s)

	part, err := s.Slice(0, 4)
	if err != nil {
		return err
	}
	step("slice", part)
	part.Destroy()

	if err := s.Clear(); err != nil {
		return err
	}
	step("clear", s)

	if _, err := s.Pop(); err != nil {
		fmt.Fprintf(w, "  pop on empty: %s\n", str.StatusOf(err))
	}
	fmt.Fprintf(w, "  destroyed: %v, again: %v\n", s.Destroy(), s.Destroy())
	return nil
}
