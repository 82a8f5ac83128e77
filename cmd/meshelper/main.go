// Command meshelper queries QFactory MES inventory lots and shipment results,
// either interactively or through its HTTP API.
package main

import "github.com/qfactory/mes-helper/internal/cli"

func main() {
	cli.Execute()
}
