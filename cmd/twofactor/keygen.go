package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrymomot/twofactor/pkg/totp"
)

func runKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "print only the key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := totp.GenerateEncodedEncryptionKey()
	if err != nil {
		return err
	}

	if *raw {
		fmt.Fprintln(os.Stdout, key)
		return nil
	}
	fmt.Fprintf(os.Stdout, "TOTP_ENCRYPTION_KEY=%s\n", key)
	return nil
}
