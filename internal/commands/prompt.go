package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ask prints a question and returns the trimmed answer line.
func ask(in *bufio.Reader, out io.Writer, question string) string {
	fmt.Fprintf(out, "%s: ", question)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// choose prints an enumerated choice; an empty answer picks def.
func choose(in *bufio.Reader, out io.Writer, question string, options []string, def string) string {
	fmt.Fprintf(out, "%s [%s] (default %s): ", question, strings.Join(options, "/"), def)
	line, _ := in.ReadString('\n')
	answer := strings.TrimSpace(line)
	if answer == "" {
		return def
	}
	return answer
}

// confirm asks a yes/no question; anything but y/yes declines.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, _ := in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
