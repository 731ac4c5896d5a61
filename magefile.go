//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the megasena binary into the bin/ directory.
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", "./bin/megasena", "./cmd/megasena")
}

// Install copies the megasena binary to /usr/local/bin.
func Install() error {
	mg.Deps(Build)
	fmt.Println("Installing...")
	return sh.Run("cp", "bin/megasena", "/usr/local/bin/megasena")
}

// Test runs all tests in the project with verbose output.
func Test() error {
	fmt.Println("Running Tests...")
	return sh.Run("go", "test", "-v", "./...")
}

// TestShort runs the tests without the Postgres container.
func TestShort() error {
	fmt.Println("Running Short Tests...")
	return sh.Run("go", "test", "-short", "./...")
}

// Export builds the binary and exports the draws from the spreadsheet in the
// current directory.
func Export() error {
	mg.Deps(Build)
	return sh.RunV("./bin/megasena", "export")
}

// Clean removes the bin directory, export outputs and analytics files.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	for _, f := range []string{
		"mega-sena-dados.json", "mega-sena-dados.csv", "mega-sena-dados.txt",
		"frequencia-numeros.csv", "analise-gaps.csv", "numeros-quentes-frios.csv",
		"duplas-frequentes.csv", "trios-frequentes.csv",
	} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println("Running go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Check runs formatting and linting checks (fmt, vet).
func Check() error {
	mg.Deps(Fmt, Vet)
	return nil
}

// Fmt runs go fmt ./...
func Fmt() error {
	fmt.Println("Running go fmt...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet ./...
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}
