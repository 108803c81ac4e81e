package main

import (
	"errors"
	"fmt"
	"os"
)

// #region main

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errRegression) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// #endregion main
