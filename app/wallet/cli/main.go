// This program provides a wallet for accounts on the data currency
// network.
package main

import "github.com/datacoin-network/datacoin/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
