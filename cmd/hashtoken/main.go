package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const (
	// minTokenLength is the shortest accepted reload token
	minTokenLength = 16
	// defaultCost is the bcrypt cost used for new hashes
	defaultCost = 12
)

var (
	errMismatch = errors.New("tokens do not match")
	errTooShort = fmt.Errorf("token must be at least %d characters", minTokenLength)
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-h", "--help", "help":
			printUsage(os.Stdout)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", sanitizeArg(os.Args[1]))
			printUsage(os.Stderr)
			os.Exit(1)
		}
	}

	token, confirm, err := readTokens()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading token: %v\n", err)
		os.Exit(1)
	}

	hash, err := hashToken(token, confirm, defaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}

// readTokens prompts twice without echo on a terminal. Piped input is read
// as a single line and used as its own confirmation.
func readTokens() (token, confirm []byte, err error) {
	fd := int(syscall.Stdin) //nolint:unconvert // syscall.Stdin is uintptr on windows
	if !term.IsTerminal(fd) {
		token, err = readLine(os.Stdin)
		return token, token, err
	}

	fmt.Fprint(os.Stderr, "Reload token: ")
	token, err = term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	fmt.Fprint(os.Stderr, "Confirm token: ")
	confirm, err = term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return token, confirm, nil
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// hashToken validates the entered token and returns its bcrypt hash.
func hashToken(token, confirm []byte, cost int) (string, error) {
	if !bytes.Equal(token, confirm) {
		return "", errMismatch
	}
	if len(bytes.TrimSpace(token)) < minTokenLength {
		return "", errTooShort
	}
	hash, err := bcrypt.GenerateFromPassword(token, cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// sanitizeArg replaces anything outside [a-zA-Z0-9_-] with '_' for display.
func sanitizeArg(arg string) string {
	var b strings.Builder
	b.Grow(len(arg))
	for _, r := range arg {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Portfolio Reload Token Hasher")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: hashtoken")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Prompts for a reload token twice and prints its bcrypt hash.")
	fmt.Fprintln(w, "Set the printed value as RELOAD_TOKEN_HASH and send the token as")
	fmt.Fprintln(w, "'Authorization: Bearer <token>' on POST /heroes/reload.")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Tokens must be at least %d characters. Piped input is read as one line.\n", minTokenLength)
}
