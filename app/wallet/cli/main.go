package main

import "github.com/placecoin/placecoin/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
