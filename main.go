package main

import "github.com/LegacyCodeHQ/maat/cmd"

func main() {
	cmd.Execute()
}
