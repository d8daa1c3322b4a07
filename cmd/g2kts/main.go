// Package main provides the g2kts command, a converter for Gradle build
// scripts from the Groovy DSL to the Kotlin DSL.
package main

import (
	"os"

	"github.com/leapstack-labs/g2kts/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
