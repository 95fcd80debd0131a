// Command hashsecret prints the argon2id hash of a secret read from the
// terminal, for building the users allow-list file.
package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/example/timeclock/internal/application"
)

func main() {
	fmt.Fprint(os.Stderr, "Senha: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}

	hash, err := application.HashSecret(string(secret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
