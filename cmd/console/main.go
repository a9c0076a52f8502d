package main

import (
	"context"
	"fmt"
	"os"

	"github.com/civicops/drconsole/internal/client/cli"
)

func main() {

	ctx := context.Background()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
