// Command hashpw prints the bcrypt hash to use as ADMIN_PASSWORD_HASH.
// The password is taken from the first argument, or read from stdin when
// no argument is given.  BCRYPT_COST selects the cost (default 12).
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/iliyamo/movielist/internal/utils"
)

func main() {
	plain, err := readPassword(os.Args[1:])
	if err != nil {
		slog.Error("hashpw: read password", "error", err)
		os.Exit(1)
	}

	cost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err = strconv.Atoi(v); err != nil {
			slog.Error("hashpw: invalid BCRYPT_COST", "value", v)
			os.Exit(1)
		}
	}

	hash, err := utils.HashPassword(plain, cost)
	if err != nil {
		slog.Error("hashpw: hash password", "error", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func readPassword(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	plain := strings.TrimRight(line, "\r\n")
	if plain == "" {
		return "", errors.New("empty password")
	}
	return plain, nil
}
