// Command basplib-redirect counts down and then opens the BASPLib pages.
package main

import "github.com/basp-group/basplib-redirect/cmd"

func main() {
	cmd.Execute()
}
