package main

import "github.com/ValentinKolb/dTable/cmd"

func main() {
	cmd.Execute()
}
