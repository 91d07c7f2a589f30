package main

import (
	"context"
	"fmt"
	"os"
	"time"
)

func runHealthcheck(ctx context.Context, _ []string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a, err := connect(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	for _, c := range a.checks {
		if err := c.Probe(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		fmt.Fprintf(os.Stdout, "%s: ok\n", c.Name)
	}
	return nil
}
